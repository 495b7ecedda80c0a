package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferences_DefaultsToDark(t *testing.T) {
	p := NewPreferences()
	p.Load(newMemPersister())
	assert.True(t, p.DarkMode())
}

func TestPreferences_TogglePersists(t *testing.T) {
	saved := newMemPersister()
	p := NewPreferences(WithPersister(saved))

	assert.False(t, p.ToggleDarkMode())
	assert.True(t, p.ToggleDarkMode())
	assert.False(t, p.ToggleDarkMode())

	reloaded := NewPreferences()
	reloaded.Load(saved)
	assert.False(t, reloaded.DarkMode())
}

func TestPreferences_IgnoresGarbage(t *testing.T) {
	saved := newMemPersister()
	saved.Persist(KeyDarkMode, "maybe")

	p := NewPreferences()
	p.Load(saved)
	assert.True(t, p.DarkMode())
}
