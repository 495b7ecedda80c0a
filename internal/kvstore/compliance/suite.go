// Package compliance holds a behaviour suite every kvstore.Store backend must pass.
package compliance

import (
	"strings"
	"testing"

	"github.com/dori/taskdeck/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreComplianceTest runs the standard checks against a Store.
// setup returns a fresh, empty store for each subtest.
func RunStoreComplianceTest(t *testing.T, setup func(t *testing.T) kvstore.Store) {
	t.Run("GetMissingKey", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		value, ok, err := store.Get("tasks")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		require.NoError(t, store.Set("tasks", `[{"id":"a"}]`))

		value, ok, err := store.Get("tasks")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"a"}]`, value)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		require.NoError(t, store.Set("darkMode", "true"))
		require.NoError(t, store.Set("darkMode", "false"))

		value, ok, err := store.Get("darkMode")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "false", value)
	})

	t.Run("EmptyValueIsPresent", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		require.NoError(t, store.Set("goals", ""))

		value, ok, err := store.Get("goals")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("LargeValue", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		big := strings.Repeat("x", 1<<20)
		require.NoError(t, store.Set("tasks", big))

		value, ok, err := store.Get("tasks")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, value, len(big))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		require.NoError(t, store.Set("tasks", "[]"))
		require.NoError(t, store.Set("goals", `[{"id":"g"}]`))

		tasks, _, err := store.Get("tasks")
		require.NoError(t, err)
		goals, _, err := store.Get("goals")
		require.NoError(t, err)
		assert.Equal(t, "[]", tasks)
		assert.Equal(t, `[{"id":"g"}]`, goals)

		keys, err := store.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{"goals", "tasks"}, keys)
	})

	t.Run("Delete", func(t *testing.T) {
		store := setup(t)
		defer store.Close()

		require.NoError(t, store.Set("tasks", "[]"))
		require.NoError(t, store.Delete("tasks"))
		require.NoError(t, store.Delete("tasks"), "deleting a missing key is not an error")

		_, ok, err := store.Get("tasks")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
