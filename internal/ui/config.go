package ui

// Config contains window and input related settings. Persistence
// (settings files, save states, ROM browsing) is host-shell polish that
// spec.md scopes out; this shell sticks to window creation, key mapping,
// framebuffer blit, and a silent audio line (see audio.go).
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
