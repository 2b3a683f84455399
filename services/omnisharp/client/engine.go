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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
	"github.com/AleutianAI/omnihost/services/omnisharp/telemetry"
)

// DefaultRequestTimeout bounds Request and Do when no option overrides it.
const DefaultRequestTimeout = 60 * time.Second

// =============================================================================
// CALL
// =============================================================================

// Call is one in-flight request.
//
// A Call completes exactly once: with the first matching response, with a
// timeout, or when the connection closes.
type Call struct {
	// Seq is the request's sequence number.
	Seq int64

	// Command is the request's command name.
	Command string

	started time.Time
	logger  *slog.Logger
	timer   *time.Timer
	done    chan struct{}
	resp    *protocol.ResponsePacket
	err     error
}

func newCall(seq int64, command string, logger *slog.Logger) *Call {
	return &Call{
		Seq:     seq,
		Command: command,
		started: time.Now(),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Done is closed once the call has completed.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes or ctx is done.
//
// Description:
//
//	Returns the response and nil on success. A response with
//	Success=false is returned together with a *ServerError. Abandoning the
//	wait through ctx does not cancel the call; it still completes or times
//	out inside the engine.
//
// Inputs:
//
//	ctx - Context bounding the wait only
//
// Outputs:
//
//	*protocol.ResponsePacket - The response, nil on timeout or close
//	error - *ServerError, ErrRequestTimeout, ErrConnectionClosed or ctx.Err()
func (c *Call) Wait(ctx context.Context) (*protocol.ResponsePacket, error) {
	if ctx == nil {
		return nil, fmt.Errorf("ctx must not be nil")
	}
	select {
	case <-c.done:
		return c.resp, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// complete is called by whoever removed the call from the pending set.
func (c *Call) complete(resp *protocol.ResponsePacket, err error) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.resp = resp
	c.err = err
	if err == nil && resp != nil && !resp.Success {
		c.err = &ServerError{Command: c.Command, Seq: c.Seq, Message: resp.Message}
	}
	close(c.done)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine correlates requests and responses over one Transport.
//
// Description:
//
//	Assigns sequence numbers, registers pending calls, writes request
//	packets, matches responses by Request_seq, and dispatches events to
//	subscribers. Responses may arrive in any order.
//
// Thread Safety:
//
//	Safe for concurrent use. One mutex guards the sequence counter and
//	the pending set; insert, lookup-and-remove and bulk failure all hold
//	it, so a call is never completed twice.
type Engine struct {
	id             string
	transport      Transport
	logger         *slog.Logger
	requestTimeout time.Duration
	anomalyLog     rate.Sometimes

	// writeSem orders wire writes by sequence number. It is a channel
	// so that waiters give up when the engine closes.
	writeSem chan struct{}

	mu       sync.Mutex
	seq      int64
	pending  map[int64]*Call
	closed   bool
	closeErr error

	subsMu  sync.Mutex
	subs    map[string]map[uint64]*subscription
	nextSub uint64

	done chan struct{}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRequestTimeout sets the timeout used by Request and Do. Zero
// disables it.
func WithRequestTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.requestTimeout = d }
}

// NewEngine creates an engine over transport. Call Run to start reading.
func NewEngine(transport Transport, opts ...EngineOption) *Engine {
	e := &Engine{
		id:             uuid.NewString(),
		transport:      transport,
		logger:         slog.Default(),
		requestTimeout: DefaultRequestTimeout,
		anomalyLog:     rate.Sometimes{First: 10, Interval: 10 * time.Second},
		writeSem:       make(chan struct{}, 1),
		pending:        make(map[int64]*Call),
		subs:           make(map[string]map[uint64]*subscription),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("connection_id", e.id))
	return e
}

// ID returns the connection identifier used in logs.
func (e *Engine) ID() string {
	return e.id
}

// Done is closed when the engine has closed.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Err returns the reason the engine closed, or nil while open.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeErr
}

// Pending returns the number of in-flight calls.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// =============================================================================
// SENDING
// =============================================================================

// Send writes a request and returns its in-flight Call.
//
// Description:
//
//	Validates command and args against the catalog, assigns the next
//	sequence number, registers the call and writes the request packet.
//	When timeout is positive the call fails with ErrRequestTimeout if no
//	response arrives in time; a response arriving later is dropped as
//	unmatched.
//
// Inputs:
//
//	command - A catalog command name
//	args - The command's request payload, a pointer to it, or nil for
//	       commands without arguments
//	timeout - Per-call deadline; zero or negative waits indefinitely
//
// Outputs:
//
//	*Call - The in-flight call
//	error - ErrUnknownCommand, ErrArgumentsMismatch, ErrConnectionClosed,
//	        or a transport write error
//
// Thread Safety:
//
//	Safe for concurrent use.
func (e *Engine) Send(command string, args any, timeout time.Duration) (*Call, error) {
	return e.send(context.Background(), command, args, timeout)
}

// send is Send with ctx supplying the trace attached to the call's logs.
func (e *Engine) send(ctx context.Context, command string, args any, timeout time.Duration) (*Call, error) {
	entry, ok := protocol.Lookup(command)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	if !entry.AcceptsArguments(args) {
		return nil, fmt.Errorf("%w: %s wants %s, got %T", ErrArgumentsMismatch, command, entry.Request, args)
	}
	if args == nil {
		args = protocol.Empty{}
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal %s arguments: %w", command, err)
	}

	// A writer stuck in transport.Write must not delay Sends after Close.
	if e.isClosed() {
		return nil, ErrConnectionClosed
	}
	select {
	case e.writeSem <- struct{}{}:
	case <-e.done:
		return nil, ErrConnectionClosed
	}
	defer func() { <-e.writeSem }()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrConnectionClosed
	}
	e.seq++
	call := newCall(e.seq, command, telemetry.LoggerWithTrace(ctx, e.logger))
	e.pending[call.Seq] = call
	if timeout > 0 {
		seq := call.Seq
		call.timer = time.AfterFunc(timeout, func() { e.expire(seq, timeout) })
	}
	e.mu.Unlock()
	recordPending(1)

	packet, err := json.Marshal(protocol.NewRequestPacket(call.Seq, command, json.RawMessage(raw)))
	if err == nil {
		err = e.transport.Write(packet)
	}
	if err != nil {
		if e.remove(call.Seq) {
			call.complete(nil, err)
			recordCompletion(call, "write_error")
		}
		return nil, fmt.Errorf("send %s: %w", command, err)
	}

	call.logger.Debug("omnisharp request sent",
		slog.String("command", command),
		slog.Int64("seq", call.Seq),
	)
	return call, nil
}

// Request sends command and decodes the response body into out.
//
// Description:
//
//	Uses the engine's request timeout. out may be nil to discard the
//	body. A response with Success=false returns a *ServerError.
//
// Inputs:
//
//	ctx - Context bounding the wait
//	command - A catalog command name
//	args - The request payload
//	out - Pointer to the response payload, or nil
//
// Outputs:
//
//	error - Non-nil on send, wait, server or decode failure
func (e *Engine) Request(ctx context.Context, command string, args, out any) error {
	if ctx == nil {
		return fmt.Errorf("ctx must not be nil")
	}

	ctx, span := startRequestSpan(ctx, command)
	defer span.End()

	call, err := e.send(ctx, command, args, e.requestTimeout)
	if err != nil {
		recordSpanError(span, err)
		return err
	}
	span.SetAttributes(seqAttr(call.Seq))

	resp, err := call.Wait(ctx)
	if err != nil {
		recordSpanError(span, err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			call.logger.Debug("omnisharp request abandoned",
				slog.String("command", command),
				slog.Int64("seq", call.Seq),
				slog.String("error", err.Error()),
			)
		}
		return err
	}
	if err := resp.DecodeBody(out); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("decode %s response: %w", command, err)
	}
	return nil
}

// Do is Request with a typed response.
func Do[T any](ctx context.Context, e *Engine, command string, args any) (T, error) {
	var out T
	err := e.Request(ctx, command, args, &out)
	return out, err
}

// remove deletes seq from the pending set and reports whether it was
// there. The caller that gets true owns completion.
func (e *Engine) remove(seq int64) bool {
	e.mu.Lock()
	_, ok := e.pending[seq]
	delete(e.pending, seq)
	e.mu.Unlock()
	if ok {
		recordPending(-1)
	}
	return ok
}

func (e *Engine) expire(seq int64, timeout time.Duration) {
	e.mu.Lock()
	call, ok := e.pending[seq]
	delete(e.pending, seq)
	e.mu.Unlock()
	if !ok {
		return
	}
	recordPending(-1)

	call.logger.Warn("omnisharp request timed out",
		slog.String("command", call.Command),
		slog.Int64("seq", seq),
		slog.Duration("timeout", timeout),
	)
	call.complete(nil, fmt.Errorf("%w: %s (seq %d) after %s", ErrRequestTimeout, call.Command, seq, timeout))
	recordCompletion(call, "timeout")
}

// =============================================================================
// RECEIVING
// =============================================================================

// HandlePacket routes one packet received from the server.
//
// Description:
//
//	Responses complete the pending call named by Request_seq. Events go
//	to the event's subscribers. Malformed packets and responses matching
//	no pending call are logged as protocol anomalies and dropped; they
//	never affect other calls.
//
// Thread Safety:
//
//	Safe for concurrent use, though Run calls it from one goroutine.
func (e *Engine) HandlePacket(data []byte) {
	in, err := protocol.DecodeIncoming(data)
	if err != nil {
		e.anomaly("malformed", slog.String("error", err.Error()), slog.Int("bytes", len(data)))
		return
	}
	if in.Response != nil {
		e.handleResponse(in.Response)
		return
	}
	e.dispatch(in.Event)
}

func (e *Engine) handleResponse(resp *protocol.ResponsePacket) {
	e.mu.Lock()
	call, ok := e.pending[resp.RequestSeq]
	delete(e.pending, resp.RequestSeq)
	e.mu.Unlock()

	if !ok {
		e.anomaly("unmatched",
			slog.Int64("request_seq", resp.RequestSeq),
			slog.String("command", resp.Command),
		)
		return
	}
	recordPending(-1)

	if resp.Command != "" && resp.Command != call.Command {
		e.anomalyTo(call.logger, "command_mismatch",
			slog.Int64("request_seq", resp.RequestSeq),
			slog.String("sent", call.Command),
			slog.String("received", resp.Command),
		)
	}

	call.complete(resp, nil)
	outcome := "success"
	if !resp.Success {
		outcome = "server_error"
	}
	recordCompletion(call, outcome)
}

// Run reads packets from the transport until it fails or ctx is done.
//
// Description:
//
//	Each packet is passed to HandlePacket. When the transport fails every
//	pending call fails with ErrConnectionClosed and the engine closes.
//	Read is not interruptible; cancelling ctx takes effect after the next
//	packet or once the owner closes the underlying stream.
//
// Outputs:
//
//	error - ctx.Err(), the transport error, or nil if Close was called
//
// Thread Safety:
//
//	Call from a single goroutine.
func (e *Engine) Run(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("ctx must not be nil")
	}
	for {
		if err := ctx.Err(); err != nil {
			e.closeWith(fmt.Errorf("%w: %v", ErrConnectionClosed, err))
			return err
		}

		data, err := e.transport.Read()
		if err != nil {
			if e.isClosed() {
				return nil
			}
			e.closeWith(fmt.Errorf("%w: %v", ErrConnectionClosed, err))
			return fmt.Errorf("read transport: %w", err)
		}
		e.HandlePacket(data)
	}
}

// =============================================================================
// SHUTDOWN
// =============================================================================

// Close fails every pending call with ErrConnectionClosed and discards
// all subscriptions. Later Sends fail fast. Close does not close the
// transport; its owner does. Safe to call more than once.
func (e *Engine) Close() {
	e.closeWith(ErrConnectionClosed)
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) closeWith(reason error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.closeErr = reason
	pending := e.pending
	e.pending = make(map[int64]*Call)
	e.mu.Unlock()

	for _, call := range pending {
		recordPending(-1)
		call.complete(nil, reason)
		recordCompletion(call, "closed")
	}

	e.subsMu.Lock()
	subs := e.subs
	e.subs = make(map[string]map[uint64]*subscription)
	e.subsMu.Unlock()
	for _, byID := range subs {
		for _, sub := range byID {
			sub.stop()
		}
	}

	close(e.done)
	e.logger.Info("omnisharp connection closed",
		slog.Int("failed_pending", len(pending)),
		slog.String("reason", reason.Error()),
	)
}

// anomaly logs a protocol violation, rate limited, and counts it.
func (e *Engine) anomaly(kind string, attrs ...any) {
	e.anomalyTo(e.logger, kind, attrs...)
}

// anomalyTo is anomaly logged through a call's trace-aware logger.
func (e *Engine) anomalyTo(logger *slog.Logger, kind string, attrs ...any) {
	recordAnomaly(kind)
	e.anomalyLog.Do(func() {
		logger.Warn("omnisharp protocol anomaly", append([]any{slog.String("kind", kind)}, attrs...)...)
	})
}
