package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	ms, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, "001_accounts.sql", ms[0].Name)
	assert.Contains(t, ms[0].SQL, "CREATE TABLE IF NOT EXISTS accounts")
}
