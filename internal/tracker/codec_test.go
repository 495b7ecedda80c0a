package tracker

import (
	"testing"
	"time"

	"github.com/dori/taskdeck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_TaskFieldNames(t *testing.T) {
	blob, err := EncodeTasks([]model.Task{{
		ID:        "t1",
		Text:      "stretch",
		CreatedAt: time.UnixMilli(1_700_000_000_000),
		DueDate:   time.UnixMilli(1_700_086_400_000),
		Category:  model.CategoryExercise,
	}})
	require.NoError(t, err)

	assert.JSONEq(t,
		`[{"id":"t1","text":"stretch","completed":false,"createdAt":1700000000000,"dueDate":1700086400000,"category":"exercise"}]`,
		blob)
}

func TestCodec_GoalFieldNames(t *testing.T) {
	blob, err := EncodeGoals([]model.Goal{{ID: "g1", Name: "read", Target: 10, Current: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"g1","name":"read","target":10,"current":3}]`, blob)
}

func TestCodec_EmptyCollections(t *testing.T) {
	blob, err := EncodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)

	tasks, err := DecodeTasks(blob)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	tasks, err = DecodeTasks("null")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCodec_DecodeGoalsClampsCounter(t *testing.T) {
	goals, err := DecodeGoals(`[{"id":"g","name":"x","target":5,"current":99},{"id":"h","name":"y","target":5,"current":-2}]`)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, 5, goals[0].Current)
	assert.Equal(t, 0, goals[1].Current)
}

func TestCodec_CorruptIsWrapped(t *testing.T) {
	_, err := DecodeTasks("[1,2")
	assert.ErrorIs(t, err, ErrPersistenceCorrupt)

	_, err = DecodeGoals(`[{"name":"no id","target":3}]`)
	assert.ErrorIs(t, err, ErrPersistenceCorrupt)
}
