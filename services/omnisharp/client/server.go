// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
)

// DefaultStartupTimeout bounds the wait for the server's started event.
const DefaultStartupTimeout = 60 * time.Second

// shutdownGrace is how long Shutdown waits for the process after closing
// its stdin before killing it.
const shutdownGrace = 5 * time.Second

// =============================================================================
// SERVER STATE
// =============================================================================

// ServerState represents the lifecycle state of a server process.
type ServerState int

const (
	// ServerStateUninitialized is the initial state before Start is called.
	ServerStateUninitialized ServerState = iota

	// ServerStateStarting means the process is running but has not
	// emitted its started event.
	ServerStateStarting

	// ServerStateReady means the server accepts requests.
	ServerStateReady

	// ServerStateStopping means the server is shutting down.
	ServerStateStopping

	// ServerStateStopped means the process has terminated.
	ServerStateStopped
)

// String returns a human-readable state name.
func (s ServerState) String() string {
	names := []string{"uninitialized", "starting", "ready", "stopping", "stopped"}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// =============================================================================
// SERVER
// =============================================================================

// ServerConfig configures a Server.
type ServerConfig struct {
	// Launch is the invocation produced by PlanLaunch.
	Launch LaunchSpec

	// StartupTimeout defaults to DefaultStartupTimeout.
	StartupTimeout time.Duration

	// RequestTimeout defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is a running analysis server process and its connection.
//
// Description:
//
//	Starts the process over stdio, runs the correlation engine's read
//	loop and a stderr drain in one errgroup, and reports ready once the
//	server emits its started event. Server log events are forwarded to
//	the logger at debug level.
//
// Thread Safety:
//
//	Safe for concurrent use after Start returns successfully.
type Server struct {
	config ServerConfig
	logger *slog.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	engine *Engine

	state   ServerState
	stateMu sync.RWMutex

	cancel  context.CancelFunc
	exited  chan struct{}
	exitErr error

	// abort ends a pending startup wait; startDone closes when Start
	// returns.
	abort     chan struct{}
	abortOnce sync.Once
	startDone chan struct{}
}

// NewServer creates a server instance (not started).
func NewServer(config ServerConfig) *Server {
	if config.StartupTimeout <= 0 {
		config.StartupTimeout = DefaultStartupTimeout
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:    config,
		logger:    logger.With(slog.String("runtime", config.Launch.Runtime)),
		state:     ServerStateUninitialized,
		exited:    make(chan struct{}),
		abort:     make(chan struct{}),
		startDone: make(chan struct{}),
	}
}

// Start launches the process and waits for it to become ready.
//
// Description:
//
//	The process outlives ctx; ctx bounds only the startup wait. If the
//	server does not emit its started event within StartupTimeout, or
//	exits first, the process is stopped and an error returned.
//
// Inputs:
//
//	ctx - Context bounding startup
//
// Outputs:
//
//	error - Non-nil if the process could not start or become ready
//
// Errors:
//
//	ErrNoServerPath - Launch has no command
//	ErrServerAlreadyStarted - Start called twice
//	ErrStartupTimeout - No started event in time
//	ErrConnectionClosed - The process exited during startup
//	ErrShutdownDuringStartup - Shutdown was called before the server was ready
//
// Thread Safety:
//
//	Safe for concurrent use, but only the first caller starts the server.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("ctx must not be nil")
	}

	s.stateMu.Lock()
	if s.state != ServerStateUninitialized {
		s.stateMu.Unlock()
		return ErrServerAlreadyStarted
	}
	s.state = ServerStateStarting
	s.stateMu.Unlock()
	defer close(s.startDone)

	launch := s.config.Launch
	if launch.Command == "" {
		s.setState(ServerStateStopped)
		close(s.exited)
		return ErrNoServerPath
	}

	s.logger.Info("Starting OmniSharp server",
		slog.String("command", launch.Command),
		slog.Any("args", launch.Args),
		slog.String("dir", launch.Dir),
	)

	procCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	cmd := exec.CommandContext(procCtx, launch.Command, launch.Args...)
	cmd.Dir = launch.Dir
	if launch.Env != nil {
		cmd.Env = launch.Env.List()
	}
	s.stateMu.Lock()
	s.cmd = cmd
	s.stateMu.Unlock()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return s.failStart(ctx, fmt.Errorf("stdin pipe: %w", err))
	}
	s.stateMu.Lock()
	s.stdin = stdin
	s.stateMu.Unlock()
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return s.failStart(ctx, fmt.Errorf("stdout pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return s.failStart(ctx, fmt.Errorf("stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		s.stateMu.Lock()
		s.cmd = nil
		s.stateMu.Unlock()
		return s.failStart(ctx, fmt.Errorf("start process: %w", err))
	}

	engine := NewEngine(NewLineTransport(stdout, stdin),
		WithLogger(s.logger),
		WithRequestTimeout(s.config.RequestTimeout),
	)
	s.stateMu.Lock()
	s.engine = engine
	s.stateMu.Unlock()

	started := make(chan struct{})
	var startedOnce sync.Once
	unsubscribe := engine.Subscribe(protocol.EventStarted, func(*protocol.EventPacket) {
		startedOnce.Do(func() { close(started) })
	})
	defer unsubscribe()
	OnEvent(engine, protocol.EventLog, func(msg protocol.LogMessage) {
		s.logger.Debug("OmniSharp log",
			slog.String("level", msg.LogLevel),
			slog.String("source", msg.Name),
			slog.String("message", msg.Message),
		)
	})

	g, gctx := errgroup.WithContext(procCtx)
	g.Go(func() error {
		err := engine.Run(gctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error { return s.drainStderr(stderr) })
	go s.wait(g)

	timer := time.NewTimer(s.config.StartupTimeout)
	defer timer.Stop()

	select {
	case <-started:
	case <-timer.C:
		return s.failStart(ctx, fmt.Errorf("%w after %s", ErrStartupTimeout, s.config.StartupTimeout))
	case <-engine.Done():
		return s.failStart(ctx, fmt.Errorf("server exited during startup: %w", engine.Err()))
	case <-ctx.Done():
		return s.failStart(ctx, ctx.Err())
	case <-s.abort:
		return s.failStart(ctx, ErrShutdownDuringStartup)
	}

	s.stateMu.Lock()
	if s.state != ServerStateStarting {
		s.stateMu.Unlock()
		return s.failStart(ctx, fmt.Errorf("server exited during startup: %w", ErrConnectionClosed))
	}
	s.state = ServerStateReady
	s.stateMu.Unlock()
	recordServerStart(ctx, launch.Runtime, true)
	s.logger.Info("OmniSharp server ready",
		slog.Int("pid", s.PID()),
		slog.String("connection_id", engine.ID()),
	)
	return nil
}

// failStart stops whatever was started and reports err.
func (s *Server) failStart(ctx context.Context, err error) error {
	recordServerStart(ctx, s.config.Launch.Runtime, false)
	s.logger.Warn("OmniSharp server failed to start", slog.String("error", err.Error()))

	if s.cmd == nil || s.cmd.Process == nil {
		s.cleanup()
		close(s.exited)
		return err
	}

	// The process may already have been reaped, leaving the state
	// Stopped; never move back from there.
	s.stateMu.Lock()
	if s.state != ServerStateStopped {
		s.state = ServerStateStopping
	}
	s.stateMu.Unlock()
	s.stop()
	s.setState(ServerStateStopped)
	return err
}

// wait reaps the process once both pipe readers have finished, since
// exec.Cmd.Wait closes the pipes.
func (s *Server) wait(g *errgroup.Group) {
	groupErr := g.Wait()
	waitErr := s.cmd.Wait()

	s.exitErr = errors.Join(groupErr, waitErr)
	s.engine.Close()
	s.cleanup()
	close(s.exited)

	s.logger.Info("OmniSharp server exited",
		slog.Int("pid", s.cmd.Process.Pid),
		slog.Any("error", s.exitErr),
	)
}

func (s *Server) drainStderr(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.logger.Debug("OmniSharp stderr", slog.String("line", scanner.Text()))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("read stderr: %w", err)
	}
	return nil
}

// Shutdown stops the server.
//
// Description:
//
//	Fails pending requests, closes the server's stdin so it exits on
//	its own, and kills it if it is still running after a grace period
//	or when ctx ends.
//
// Inputs:
//
//	ctx - Context bounding the graceful wait
//
// Outputs:
//
//	error - Always nil; the server is stopped on return
//
// Thread Safety:
//
//	Safe for concurrent use. Multiple calls are idempotent.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stateMu.Lock()
	switch s.state {
	case ServerStateStopped, ServerStateStopping:
		s.stateMu.Unlock()
		<-s.exited
		return nil
	case ServerStateUninitialized:
		s.state = ServerStateStopped
		s.stateMu.Unlock()
		close(s.exited)
		return nil
	case ServerStateStarting:
		s.stateMu.Unlock()
		s.abortOnce.Do(func() { close(s.abort) })
		<-s.startDone
		// Start may have reached Ready before seeing the abort.
		return s.Shutdown(ctx)
	}
	s.state = ServerStateStopping
	s.stateMu.Unlock()

	s.logger.Info("Shutting down OmniSharp server", slog.Int("pid", s.PID()))

	if ctx == nil {
		ctx = context.Background()
	}
	grace, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()

	if engine := s.Engine(); engine != nil {
		engine.Close()
	}
	s.stateMu.RLock()
	stdin := s.stdin
	s.stateMu.RUnlock()
	if stdin != nil {
		_ = stdin.Close()
	}

	select {
	case <-s.exited:
	case <-grace.Done():
		s.stop()
	}
	return nil
}

// stop kills the process and waits for it to be reaped.
func (s *Server) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.exited
}

// cleanup releases resources and sets state to stopped.
func (s *Server) cleanup() {
	if s.cancel != nil {
		s.cancel()
	}
	s.stateMu.Lock()
	if s.stdin != nil {
		_ = s.stdin.Close()
	}
	s.state = ServerStateStopped
	s.stateMu.Unlock()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current server state.
func (s *Server) State() ServerState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Engine returns the server's correlation engine, or nil before Start.
func (s *Server) Engine() *Engine {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.engine
}

// Operations returns typed operations bound to the running server.
func (s *Server) Operations() (*Operations, error) {
	if s.State() != ServerStateReady {
		return nil, ErrServerNotRunning
	}
	return NewOperations(s.Engine()), nil
}

// PID returns the process id, or 0 if the process is not running.
func (s *Server) PID() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Exited is closed once the process has been reaped.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

// ExitErr returns the process exit error after Exited is closed.
func (s *Server) ExitErr() error {
	select {
	case <-s.exited:
		return s.exitErr
	default:
		return nil
	}
}

func (s *Server) setState(state ServerState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}
