package frame

import "bytes"

// Default frame geometry, matching the sizes compiled into the firmware.
const (
	// Length is the total size of a frame on the wire.
	Length = 64
	// HeaderLength is the size of the command header segment.
	HeaderLength = 4

	pad byte = 0
)

// Codec encodes and decodes frames of one fixed geometry.
type Codec struct {
	// Length is the total frame size in bytes.
	Length int
	// HeaderLength is the header segment size in bytes.
	HeaderLength int
}

// Default is the codec for the firmware's compiled-in geometry.
var Default = Codec{Length: Length, HeaderLength: HeaderLength}

// BodyCapacity returns the maximum body size a frame can carry.
func (c Codec) BodyCapacity() int {
	return c.Length - c.HeaderLength
}

// Frame is one parsed unit of wire data. Frames compare equal when they
// have the same geometry, header and (truncated) body.
type Frame struct {
	length int
	header string
	body   string
}

// Encode builds a Frame from separate header and body strings.
func (c Codec) Encode(header, body string) (Frame, error) {
	if len(header) != c.HeaderLength {
		return Frame{}, &HeaderLengthError{Want: c.HeaderLength, Got: len(header)}
	}
	if len(body) > c.BodyCapacity() {
		return Frame{}, &BodyTooLongError{Capacity: c.BodyCapacity(), Got: len(body)}
	}
	return Frame{length: c.Length, header: header, body: body}, nil
}

// Decode parses a raw wire frame. The body is truncated at the first
// NUL byte; the bytes after it are padding.
func (c Codec) Decode(raw []byte) (Frame, error) {
	if len(raw) != c.Length {
		return Frame{}, &FrameLengthError{Want: c.Length, Got: len(raw)}
	}
	body := raw[c.HeaderLength:]
	if i := bytes.IndexByte(body, pad); i >= 0 {
		body = body[:i]
	}
	return Frame{
		length: c.Length,
		header: string(raw[:c.HeaderLength]),
		body:   string(body),
	}, nil
}

// Encode builds a Frame using the default geometry.
func Encode(header, body string) (Frame, error) {
	return Default.Encode(header, body)
}

// Decode parses a raw wire frame using the default geometry.
func Decode(raw []byte) (Frame, error) {
	return Default.Decode(raw)
}

// Header returns the command header segment.
func (f Frame) Header() string {
	return f.header
}

// Body returns the body with padding stripped.
func (f Frame) Body() string {
	return f.body
}

// Bytes returns the wire form: header, body, then NUL padding up to the
// frame length.
func (f Frame) Bytes() []byte {
	b := make([]byte, f.length)
	copy(b, f.header)
	copy(b[len(f.header):], f.body)
	return b
}
