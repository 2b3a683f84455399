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
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Transport is a duplex packet stream to the server.
//
// Write may be called concurrently. Read is called from a single
// goroutine and returns one packet per call without its delimiter.
type Transport interface {
	Write(packet []byte) error
	Read() ([]byte, error)
}

// LineTransport frames packets as newline-delimited lines, the framing
// used by the server's stdio mode.
//
// Thread Safety:
//
//	Write is safe for concurrent use. Read must be called from one
//	goroutine.
type LineTransport struct {
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex
}

// NewLineTransport reads from r (server stdout) and writes to w
// (server stdin).
func NewLineTransport(r io.Reader, w io.Writer) *LineTransport {
	return &LineTransport{
		reader: bufio.NewReaderSize(r, 64*1024),
		writer: w,
	}
}

// Write sends packet followed by a newline.
func (t *LineTransport) Write(packet []byte) error {
	if bytes.IndexByte(packet, '\n') >= 0 {
		return fmt.Errorf("packet contains a newline")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(packet); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	if _, err := t.writer.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write delimiter: %w", err)
	}
	return nil
}

// Read returns the next non-empty line. A final unterminated line is
// returned before io.EOF.
func (t *LineTransport) Read() ([]byte, error) {
	for {
		line, err := t.reader.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read packet: %w", err)
		}
	}
}
