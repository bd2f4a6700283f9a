package frame

import "fmt"

// HeaderLengthError indicates a header that doesn't fill the header
// segment exactly.
type HeaderLengthError struct {
	Want int
	Got  int
}

// Error implements error.
func (e *HeaderLengthError) Error() string {
	return fmt.Sprintf("header must be exactly %d bytes, got %d", e.Want, e.Got)
}

// BodyTooLongError indicates a body that doesn't fit the frame.
type BodyTooLongError struct {
	Capacity int
	Got      int
}

// Error implements error.
func (e *BodyTooLongError) Error() string {
	return fmt.Sprintf("body exceeds %d bytes, got %d", e.Capacity, e.Got)
}

// FrameLengthError indicates raw data that isn't exactly one frame.
// Short reads from a slow MCU surface here.
type FrameLengthError struct {
	Want int
	Got  int
}

// Error implements error.
func (e *FrameLengthError) Error() string {
	return fmt.Sprintf("frame must be exactly %d bytes, got %d", e.Want, e.Got)
}
