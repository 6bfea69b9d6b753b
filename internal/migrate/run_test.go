package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_SortedAndEmbedded(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_users", "0002_todos"}, versions)

	for _, v := range versions {
		body, err := migrationsFS.ReadFile("migrations/" + v + ".sql")
		require.NoError(t, err)
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS")
	}
}
