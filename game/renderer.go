package game

import "errors"

// Renderer consumes one frame per tick. Returning ErrQuit stops the run.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame) error

// Render calls f.
func (f RendererFunc) Render(fr Frame) error { return f(fr) }

// MultiRenderer fans a frame out to several renderers. Every renderer sees
// the frame; a quit request wins over other errors.
type MultiRenderer []Renderer

// Render implements Renderer.
func (m MultiRenderer) Render(f Frame) error {
	var errs []error
	quit := false
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Render(f); err != nil {
			if errors.Is(err, ErrQuit) {
				quit = true
				continue
			}
			errs = append(errs, err)
		}
	}
	if quit {
		return ErrQuit
	}
	return errors.Join(errs...)
}
