package imcanvas

import "errors"

// Common errors for draw-data translation.
var (
	// ErrInvalidImageData is returned when a pixel buffer does not match its
	// declared dimensions and format, or when dimensions are non-positive.
	ErrInvalidImageData = errors.New("imcanvas: invalid image data")

	// ErrUnknownHandle is returned when a texture handle is looked up or
	// updated but was never registered, or has already been released.
	ErrUnknownHandle = errors.New("imcanvas: unknown texture handle")

	// ErrIndexOutOfRange is returned when a draw command's index range
	// extends past the end of its list's index buffer.
	ErrIndexOutOfRange = errors.New("imcanvas: index range out of bounds")

	// ErrUnsupportedCommand is returned for recognized but unimplemented
	// draw command kinds. Commands are never silently skipped: dropping one
	// produces subtly wrong output, which is worse than a loud failure.
	ErrUnsupportedCommand = errors.New("imcanvas: unsupported draw command")
)
