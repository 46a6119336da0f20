package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-archive/chronicle/pkg/errors"
)

func TestValidateSchemaEmptyRowSet(t *testing.T) {
	assert.NoError(t, Events.ValidateSchema("empty.csv", nil))
	assert.NoError(t, Events.ValidateSchema("empty.csv", []Row{}))
}

func TestValidateSchemaMissingColumn(t *testing.T) {
	rows := []Row{{"date": "2024", "location": "Loc"}} // no event column
	err := Events.ValidateSchema("batch.csv", rows)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "batch.csv", schemaErr.File)
	assert.Contains(t, schemaErr.Missing, "event")
}

func TestValidateSchemaToleratesMissingStatusColumns(t *testing.T) {
	// Batches written before the deep-search columns existed still merge;
	// normalization backfills the status value.
	rows := []Row{{
		"date": "2024", "location": "Loc", "event": "Ev",
		"participants_on_record": "", "source_urls": "", "notes": "",
	}}
	assert.NoError(t, Events.ValidateSchema("old_batch.csv", rows))
	assert.Error(t, Events.ValidateFullSchema("old_batch.csv", rows))
}

func TestValidateFullSchemaCompleteRow(t *testing.T) {
	row := Events.Normalize(Row{"date": "2024"})
	assert.NoError(t, Events.ValidateFullSchema("ok.csv", []Row{row}))
}

func TestValidateSchemaLeadFamilies(t *testing.T) {
	// Lead families have no status column; all declared columns are required.
	rows := []Row{{"entity_a": "X"}}
	err := UnverifiedConnections.ValidateSchema("unverified_connections.csv", rows)
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "entity_b")
}
