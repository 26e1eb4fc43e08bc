//go:build !sdl

package display

import "errors"

// SDLConfig configures the SDL window.
type SDLConfig struct {
	Scale int
	Title string
}

// NewSDL reports that the binary was built without SDL support.
func NewSDL(cfg SDLConfig) (Display, error) {
	return nil, errors.New("SDL backend not enabled; rebuild with -tags sdl")
}

// SupportsSDL reports whether the SDL backend is compiled in.
func SupportsSDL() bool { return false }
