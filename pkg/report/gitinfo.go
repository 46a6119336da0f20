package report

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/agentstation/utc"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/logging"
)

// GitContext describes the commit a changelog entry is recorded for, plus
// the CI run that produced it. Fields are best-effort: outside a git
// checkout (or a CI run) they stay empty and the changelog still builds.
type GitContext struct {
	Branch        string
	CommitHash    string
	CommitShort   string
	CommitSubject string
	CommitAuthor  string
	CommitDate    string // ISO 8601
	Workflow      string
	RunID         string
	Actor         string
}

// CollectGitContext gathers commit metadata from the repository at dir and
// CI metadata from the environment. Git failures are logged at debug and
// leave the corresponding fields empty.
func CollectGitContext(dir string) GitContext {
	ctx := GitContext{
		Branch:        git(dir, "rev-parse", "--abbrev-ref", "HEAD"),
		CommitHash:    git(dir, "rev-parse", "HEAD"),
		CommitShort:   git(dir, "rev-parse", "--short", "HEAD"),
		CommitSubject: git(dir, "log", "-1", "--pretty=%s"),
		CommitAuthor:  git(dir, "log", "-1", "--pretty=%an"),
		CommitDate:    git(dir, "log", "-1", "--pretty=%cI"),
		Workflow:      os.Getenv("GITHUB_WORKFLOW"),
		RunID:         os.Getenv("GITHUB_RUN_ID"),
		Actor:         os.Getenv("GITHUB_ACTOR"),
	}
	if ctx.CommitDate == "" {
		ctx.CommitDate = utc.Now().Format(constants.SnapshotTimeFormat)
	}
	return ctx
}

// ChangedFiles lists the paths touched by the latest commit, diffed against
// its parent when one exists. Returns nil when git is unavailable.
func ChangedFiles(dir string) []string {
	count, err := strconv.Atoi(git(dir, "rev-list", "--count", "HEAD"))
	var out string
	if err == nil && count > 1 {
		out = git(dir, "diff", "--name-only", "HEAD~1", "HEAD")
	} else {
		out = git(dir, "diff", "--name-only", "HEAD")
	}

	var changed []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			changed = append(changed, line)
		}
	}
	return changed
}

func git(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		logging.Debug().Err(err).Strs("args", args).Msg("git command failed")
		return ""
	}
	return strings.TrimSpace(string(out))
}
