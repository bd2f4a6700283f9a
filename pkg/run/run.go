// Package run provides small helpers for running cancellable work.
package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// SignalContext returns a context cancelled by CtrlC or SIGTERM. The
// first signal requests an orderly stop so deferred teardown (the
// disconnect handshake, closing the port) still runs; a second signal
// forces the process to exit.
func SignalContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		glog.Flush()
		os.Exit(1)
	}()
	return ctx
}
