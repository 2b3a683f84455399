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
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTransport_Write(t *testing.T) {
	t.Run("appends newline", func(t *testing.T) {
		var buf bytes.Buffer
		tr := NewLineTransport(strings.NewReader(""), &buf)

		require.NoError(t, tr.Write([]byte(`{"Seq":1}`)))
		require.NoError(t, tr.Write([]byte(`{"Seq":2}`)))
		assert.Equal(t, "{\"Seq\":1}\n{\"Seq\":2}\n", buf.String())
	})

	t.Run("rejects embedded newline", func(t *testing.T) {
		var buf bytes.Buffer
		tr := NewLineTransport(strings.NewReader(""), &buf)

		assert.Error(t, tr.Write([]byte("a\nb")))
		assert.Zero(t, buf.Len())
	})
}

func TestLineTransport_Read(t *testing.T) {
	tr := NewLineTransport(strings.NewReader("one\r\n\n\ntwo\nthree"), io.Discard)

	var got []string
	for {
		line, err := tr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(line))
	}
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestLineTransport_ReadLargePacket(t *testing.T) {
	big := strings.Repeat("x", 256*1024)
	tr := NewLineTransport(strings.NewReader(big+"\n"), io.Discard)

	line, err := tr.Read()
	require.NoError(t, err)
	assert.Len(t, line, len(big))
}

func TestLineTransport_ConcurrentWritesDoNotInterleave(t *testing.T) {
	pr, pw := io.Pipe()
	tr := NewLineTransport(strings.NewReader(""), pw)
	reader := NewLineTransport(pr, io.Discard)

	const n = 20
	payload := strings.Repeat("y", 1000)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tr.Write([]byte(payload)))
		}()
	}
	go func() {
		wg.Wait()
		pw.Close()
	}()

	count := 0
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, payload, string(line))
		count++
	}
	assert.Equal(t, n, count)
}
