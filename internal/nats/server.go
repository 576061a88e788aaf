// Package nats runs the embedded JetStream server that backs the wizard journal.
package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Embedded is an in-process server with one client connection and the
// journal stream already set up. No network ports are opened.
type Embedded struct {
	JS     jetstream.JetStream
	Stream jetstream.Stream

	ns *server.Server
	nc *nats.Conn
}

// Start boots a server storing under dataDir and prepares the journal stream.
func Start(ctx context.Context, dataDir string) (*Embedded, error) {
	logger.Debug("starting journal server in %s", dataDir)

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, errors.New("journal server not ready in time")
	}

	e := &Embedded{ns: ns}
	if e.nc, err = nats.Connect("", nats.InProcessServer(ns)); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("connecting: %w", err)
	}
	if e.JS, err = jetstream.New(e.nc); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("opening jetstream: %w", err)
	}
	if e.Stream, err = SetupStream(ctx, e.JS); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("setting up stream: %w", err)
	}
	return e, nil
}

// Close drains the connection and stops the server, forcing each step
// after a timeout. Calling it twice is harmless.
func (e *Embedded) Close() error {
	if e.nc != nil {
		drained := make(chan error, 1)
		go func() { drained <- e.nc.Drain() }()

		select {
		case err := <-drained:
			if err != nil {
				logger.Warn("journal drain failed, closing: %v", err)
				e.nc.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("journal drain timed out, closing")
			e.nc.Close()
		}
		e.nc = nil
	}

	if e.ns == nil {
		return nil
	}
	ns := e.ns
	e.ns = nil
	ns.Shutdown()

	stopped := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(stopped)
	}()
	select {
	case <-stopped:
		logger.Debug("journal server stopped")
		return nil
	case <-time.After(shutdownTimeout):
		return errors.New("journal server shutdown timed out")
	}
}
