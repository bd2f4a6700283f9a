package proto

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/airalarm/desklink/pkg/transport"
)

// Dial tries each transport candidate in order and returns a connected
// Engine for the first one whose handshake succeeds, along with the
// winning candidate path. Each candidate gets the configured number of
// handshake attempts, each on a freshly opened transport.
//
// An unopenable candidate and a failed handshake are treated the same
// way: move on to the next candidate. When all candidates are
// exhausted, Dial reports ErrNoConnection.
func Dial(candidates []string, open transport.Opener, opts ...Option) (*Engine, string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, path := range candidates {
		engine, err := dialOne(path, open, cfg, opts)
		if err != nil {
			glog.V(1).Infof("candidate %s: %v", path, err)
			continue
		}
		glog.Infof("connected on %s", path)
		return engine, path, nil
	}
	return nil, "", fmt.Errorf("%w (%d candidates tried)", ErrNoConnection, len(candidates))
}

func dialOne(path string, open transport.Opener, cfg Config, opts []Option) (*Engine, error) {
	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		conn := open(path)
		if err := conn.Open(); err != nil {
			// The device itself is not usable; retrying won't help.
			return nil, err
		}
		engine := New(conn, opts...)
		if err := engine.Connect(); err != nil {
			lastErr = err
			if cerr := conn.Close(); cerr != nil {
				glog.Warningf("close %s: %v", path, cerr)
			}
			if !errors.Is(err, ErrHandshakeFailed) {
				return nil, err
			}
			glog.V(2).Infof("%s: handshake attempt %d/%d failed", path, attempt, cfg.Attempts)
			continue
		}
		return engine, nil
	}
	return nil, lastErr
}
