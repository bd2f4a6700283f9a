package proto

import (
	"time"

	"github.com/airalarm/desklink/pkg/frame"
)

// Config holds the engine configuration.
type Config struct {
	// Codec is the frame geometry shared with the firmware.
	Codec frame.Codec

	// FrameTimeout bounds the assembly of one full frame from the
	// transport. Partial reads within the window are retried.
	FrameTimeout time.Duration

	// PacingTimeout bounds any wait for a CTS pacing token.
	PacingTimeout time.Duration

	// Attempts is the number of handshake attempts per transport
	// candidate during Dial.
	Attempts int
}

func defaultConfig() Config {
	return Config{
		Codec:         frame.Default,
		FrameTimeout:  700 * time.Millisecond,
		PacingTimeout: 10 * time.Second,
		Attempts:      3,
	}
}

// Option is a functional option for configuring an Engine.
type Option func(*Config)

// WithCodec sets the frame geometry.
func WithCodec(c frame.Codec) Option {
	return func(cfg *Config) {
		if c.Length > 0 && c.HeaderLength > 0 && c.HeaderLength <= c.Length {
			cfg.Codec = c
		}
	}
}

// WithFrameTimeout bounds the assembly of one full frame.
func WithFrameTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		if d > 0 {
			cfg.FrameTimeout = d
		}
	}
}

// WithPacingTimeout bounds waits for the CTS pacing token.
func WithPacingTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		if d > 0 {
			cfg.PacingTimeout = d
		}
	}
}

// WithAttempts sets the handshake attempts per candidate.
func WithAttempts(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Attempts = n
		}
	}
}
