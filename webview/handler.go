// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"crypto/rand"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
)

// ServeHTTP implements http.Handler.
func (d *Dev) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	d.mu.Lock()
	halted := d.halted
	d.mu.Unlock()
	if halted {
		http.Error(w, "halted", http.StatusServiceUnavailable)
		return
	}
	if r.URL.Query().Get("once") != "" {
		b, err := d.frame()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		_, _ = w.Write(b)
		return
	}

	boundary, err := randomBoundary()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c := &client{refresh: make(chan struct{}, 1), terminate: make(chan struct{}, 1)}
	d.mu.Lock()
	if d.halted {
		d.mu.Unlock()
		http.Error(w, "halted", http.StatusServiceUnavailable)
		return
	}
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": boundary}))
	defer func() {
		d.mu.Lock()
		delete(d.clients, c)
		d.mu.Unlock()
	}()

	for first := true; ; first = false {
		b, err := d.frame()
		if err != nil {
			return
		}
		// An error means the client is gone. There is no way to report it
		// inside the stream.
		if err := writePart(w, boundary, first, b); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// writePart writes one PNG part followed by the closing boundary line, so the
// client can show it without waiting for the next frame.
func writePart(w io.Writer, boundary string, first bool, body []byte) error {
	if first {
		if _, err := fmt.Fprintf(w, "--%s\r\n", boundary); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Content-Type: image/png\r\nContent-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\r\n--%s\r\n", boundary)
	return err
}

// randomBoundary returns a multipart boundary as allowed by RFC 2046.
func randomBoundary() (string, error) {
	var buf [30]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", buf[:]), nil
}
