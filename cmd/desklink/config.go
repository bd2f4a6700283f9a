package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/airalarm/desklink/pkg/frame"
	"github.com/airalarm/desklink/pkg/proto"
)

// Config is the resolved tool configuration.
type Config struct {
	PortPattern   string
	FrameLength   int
	HeaderLength  int
	FrameTimeout  time.Duration
	PacingTimeout time.Duration
	Attempts      int
	MQTTURL       string
}

type fileConfig struct {
	PortPattern   string `toml:"port_pattern"`
	FrameLength   int    `toml:"frame_length"`
	HeaderLength  int    `toml:"header_length"`
	FrameTimeout  string `toml:"frame_timeout"`
	PacingTimeout string `toml:"pacing_timeout"`
	Attempts      int    `toml:"handshake_attempts"`
	MQTTURL       string `toml:"mqtt_url"`
}

func defaultConfig() Config {
	return Config{
		FrameLength:   frame.Length,
		HeaderLength:  frame.HeaderLength,
		FrameTimeout:  700 * time.Millisecond,
		PacingTimeout: 10 * time.Second,
		Attempts:      3,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("port_pattern") {
		cfg.PortPattern = strings.TrimSpace(raw.PortPattern)
	}
	if meta.IsDefined("frame_length") {
		if raw.FrameLength <= 0 {
			return Config{}, fmt.Errorf("frame_length must be positive, got %d", raw.FrameLength)
		}
		cfg.FrameLength = raw.FrameLength
	}
	if meta.IsDefined("header_length") {
		if raw.HeaderLength <= 0 {
			return Config{}, fmt.Errorf("header_length must be positive, got %d", raw.HeaderLength)
		}
		cfg.HeaderLength = raw.HeaderLength
	}
	if cfg.HeaderLength > cfg.FrameLength {
		return Config{}, fmt.Errorf("header_length %d exceeds frame_length %d", cfg.HeaderLength, cfg.FrameLength)
	}
	if meta.IsDefined("frame_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.FrameTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse frame_timeout: %w", err)
		}
		cfg.FrameTimeout = d
	}
	if meta.IsDefined("pacing_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.PacingTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse pacing_timeout: %w", err)
		}
		cfg.PacingTimeout = d
	}
	if meta.IsDefined("handshake_attempts") {
		if raw.Attempts < 1 {
			return Config{}, fmt.Errorf("handshake_attempts must be at least 1, got %d", raw.Attempts)
		}
		cfg.Attempts = raw.Attempts
	}
	if meta.IsDefined("mqtt_url") {
		cfg.MQTTURL = strings.TrimSpace(raw.MQTTURL)
	}

	return cfg, nil
}

func (c Config) engineOptions() []proto.Option {
	return []proto.Option{
		proto.WithCodec(frame.Codec{Length: c.FrameLength, HeaderLength: c.HeaderLength}),
		proto.WithFrameTimeout(c.FrameTimeout),
		proto.WithPacingTimeout(c.PacingTimeout),
		proto.WithAttempts(c.Attempts),
	}
}
