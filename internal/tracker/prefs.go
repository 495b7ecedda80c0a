package tracker

import (
	"strconv"
)

// Preferences holds display settings that persist independently of the
// task and goal collections.
type Preferences struct {
	opts     options
	darkMode bool
}

// NewPreferences returns preferences with dark mode on
func NewPreferences(opts ...Option) *Preferences {
	return &Preferences{opts: newOptions(opts), darkMode: true}
}

// Load reads the stored dark mode flag, keeping the default when the value
// is absent or unparseable.
func (p *Preferences) Load(g Getter) {
	blob, ok := loadBlob(g, KeyDarkMode, p.opts.logger)
	if !ok {
		return
	}
	v, err := strconv.ParseBool(blob)
	if err != nil {
		p.opts.logger.Warn("discarding stored dark mode flag", "value", blob, "error", err)
		return
	}
	p.darkMode = v
}

// DarkMode reports the current flag
func (p *Preferences) DarkMode() bool {
	return p.darkMode
}

// SetDarkMode stores the flag
func (p *Preferences) SetDarkMode(on bool) {
	p.darkMode = on
	p.opts.persister.Persist(KeyDarkMode, strconv.FormatBool(on))
}

// ToggleDarkMode flips the flag and returns the new value
func (p *Preferences) ToggleDarkMode() bool {
	p.SetDarkMode(!p.darkMode)
	return p.darkMode
}
