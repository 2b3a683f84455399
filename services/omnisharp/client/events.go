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
	"fmt"
	"log/slog"
	"sync"

	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
)

// EventHandler receives events for one subscription. Handlers for the
// same subscription run sequentially in arrival order.
type EventHandler func(ev *protocol.EventPacket)

// subscription owns a goroutine and an unbounded queue so a slow or
// panicking handler never blocks the read loop or other subscribers.
type subscription struct {
	event   string
	handler EventHandler
	logger  *slog.Logger

	mu     sync.Mutex
	queue  []*protocol.EventPacket
	signal chan struct{}

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

func newSubscription(event string, handler EventHandler, logger *slog.Logger) *subscription {
	s := &subscription{
		event:   event,
		handler: handler,
		logger:  logger,
		signal:  make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *subscription) push(ev *protocol.EventPacket) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscription) pop() *protocol.EventPacket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil
	}
	ev := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return ev
}

func (s *subscription) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.signal:
		}
		for ev := s.pop(); ev != nil; ev = s.pop() {
			select {
			case <-s.quit:
				return
			default:
			}
			s.deliver(ev)
		}
	}
}

func (s *subscription) deliver(ev *protocol.EventPacket) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("omnisharp event handler panicked",
				slog.String("event", s.event),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.handler(ev)
}

func (s *subscription) stop() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Subscribe registers handler for events named event.
//
// Description:
//
//	Each subscription has its own delivery goroutine. A handler panic is
//	recovered and logged; later events are still delivered. Events with
//	no subscriber are dropped silently. Subscribing to a closed engine
//	registers nothing.
//
// Outputs:
//
//	func() - Unsubscribe; safe to call more than once
//
// Thread Safety:
//
//	Safe for concurrent use.
func (e *Engine) Subscribe(event string, handler EventHandler) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}

	e.subsMu.Lock()
	// Checked under subsMu so closeWith cannot miss this subscription.
	if e.isClosed() {
		e.subsMu.Unlock()
		return func() {}
	}
	e.nextSub++
	id := e.nextSub
	sub := newSubscription(event, handler, e.logger)
	if e.subs[event] == nil {
		e.subs[event] = make(map[uint64]*subscription)
	}
	e.subs[event][id] = sub
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		if byID := e.subs[event]; byID != nil {
			delete(byID, id)
			if len(byID) == 0 {
				delete(e.subs, event)
			}
		}
		e.subsMu.Unlock()
		sub.stop()
	}
}

// OnEvent subscribes fn to event with a typed body. Bodies that fail to
// decode are logged as protocol anomalies and skipped.
func OnEvent[T any](e *Engine, event string, fn func(body T)) (unsubscribe func()) {
	return e.Subscribe(event, func(ev *protocol.EventPacket) {
		var body T
		if err := ev.DecodeBody(&body); err != nil {
			e.anomaly("event_body", slog.String("event", ev.Event), slog.String("error", err.Error()))
			return
		}
		fn(body)
	})
}

func (e *Engine) dispatch(ev *protocol.EventPacket) {
	recordEvent(ev.Event)

	e.subsMu.Lock()
	byID := e.subs[ev.Event]
	targets := make([]*subscription, 0, len(byID))
	for _, sub := range byID {
		targets = append(targets, sub)
	}
	e.subsMu.Unlock()

	for _, sub := range targets {
		sub.push(ev)
	}
}
