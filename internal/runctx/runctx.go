// Package runctx holds the read-only parameters shared by every node within a
// single evaluation run.
package runctx

import "fmt"

// Context is the execution context of one run. It is passed by value and never
// mutated once a run has started.
type Context struct {
	Width  int
	Height int
}

// New returns a context targeting an image of the given dimensions.
func New(width, height int) Context {
	return Context{Width: width, Height: height}
}

// Pixels returns the number of pixels in a texture sized by this context.
func (c Context) Pixels() int {
	return c.Width * c.Height
}

// Validate reports whether the dimensions can size a texture.
func (c Context) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d: both must be positive", c.Width, c.Height)
	}
	return nil
}

func (c Context) String() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}
