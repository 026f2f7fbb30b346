// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"
)

// FeedConnection provides the line-oriented bytes of a serial or
// WebSocket eavesdrop feed. The monitor only ever reads.
type FeedConnection interface {
	io.Reader
	io.Closer
}

// SerialFeed wraps a serial port
type SerialFeed struct {
	port serial.Port
}

func (s *SerialFeed) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialFeed) Close() error {
	return s.port.Close()
}

// ErrFeedClosed is returned when reading from a closed WebSocket feed
var ErrFeedClosed = fmt.Errorf("websocket feed closed")

// WebSocketFeed adapts a WebSocket message stream to byte-level reads
type WebSocketFeed struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool // Track if connection has failed/closed
}

func (w *WebSocketFeed) Read(p []byte) (int, error) {
	// Return immediately if the feed is known to be closed
	if w.closed {
		return 0, ErrFeedClosed
	}

	// If we have buffered data, return it first
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	// Read the next message from the WebSocket
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			// Mark the feed closed to prevent further read attempts
			w.closed = true
			return 0, err
		}

		// Bridges publish the feed as text lines; some send binary
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		// Buffer the message and return what fits
		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *WebSocketFeed) Close() error {
	return w.conn.Close()
}

// OpenSerialFeed opens the serial eavesdrop port, 8N1
func OpenSerialFeed(portName string, baudRate int) (FeedConnection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}

	return &SerialFeed{port: port}, nil
}

// OpenWebSocketFeed opens a WebSocket feed with HTTP Basic auth
func OpenWebSocketFeed(feedURL, username, password string, skipSSLVerify bool) (FeedConnection, error) {
	// Parse and validate URL
	u, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Validate scheme
	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	// Create dialer with timeout
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	// Configure TLS for wss://
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	// Build HTTP headers with Basic auth
	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	// Connect
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, feedURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return &WebSocketFeed{conn: conn}, nil
}

// promptPassword reads a password from the terminal without echo,
// falling back to plain stdin when terminal functions fail
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr) // newline after password
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr) // newline after password
	return string(passwordBytes), nil
}

// feedPassword resolves the feed password: environment first, then an
// interactive prompt
func feedPassword() (string, error) {
	if pw := os.Getenv("CALORIMETER_PASSWORD"); pw != "" {
		return pw, nil
	}
	return promptPassword()
}

// OpenFeed opens the eavesdrop feed the monitor flags select. Exactly
// one of --port and --url picks serial or WebSocket.
func OpenFeed() (FeedConnection, string, error) {
	if (feedPort == "") == (feedURL == "") {
		return nil, "", fmt.Errorf("either --port or --url must be specified")
	}

	if feedURL != "" {
		// WebSocket mode
		password := ""
		if feedUsername != "" {
			var err error
			password, err = feedPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := OpenWebSocketFeed(feedURL, feedUsername, password, feedNoSSLVerify)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("WebSocket: %s", feedURL), nil
	}

	// Serial mode
	conn, err := OpenSerialFeed(feedPort, feedBaud)
	if err != nil {
		return nil, "", err
	}

	return conn, fmt.Sprintf("Serial: %s @ %d baud", feedPort, feedBaud), nil
}
