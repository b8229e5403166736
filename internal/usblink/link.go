// Package usblink implements the line-oriented control protocol spoken over
// the device's USB CDC port. The host build serves the same handler over
// TCP so the protocol can be exercised without hardware.
package usblink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/bus"
)

// Indicator is the output asserted by "start smile" and cleared by "stop"
// (the on-board LED on the device).
type Indicator interface {
	Set(on bool)
}

// NopIndicator discards indicator changes.
type NopIndicator struct{}

// Set implements Indicator.
func (NopIndicator) Set(bool) {}

// Reply frames for the ASCII protocol. The wire format is one JSON object
// per line; field order is fixed by the struct definitions.
type readyReply struct {
	Status string `json:"status"`
	App    string `json:"app"`
}

type ackReply struct {
	Ack string `json:"ack"`
}

type errorReply struct {
	Error string `json:"error"`
	Cmd   string `json:"cmd"`
}

// Link parses commands and writes replies. A malformed command is answered
// with a structured error and never disturbs engine state.
type Link struct {
	ind Indicator
	bus *bus.EventBus
	log zerolog.Logger
}

// New creates a control link. The bus may be nil.
func New(ind Indicator, eventBus *bus.EventBus, logger zerolog.Logger) *Link {
	if ind == nil {
		ind = NopIndicator{}
	}
	return &Link{
		ind: ind,
		bus: eventBus,
		log: logger.With().Str("component", "usblink").Logger(),
	}
}

// Serve runs one session over a byte stream: emits the ready banner, then
// answers one command per line until EOF or context cancellation. Lines are
// terminated by '\n' or '\r' and matched case-insensitively.
func (l *Link) Serve(ctx context.Context, rw io.ReadWriter) error {
	if err := l.reply(rw, readyReply{Status: "ready", App: "usb-link"}); err != nil {
		return err
	}

	scanner := bufio.NewScanner(rw)
	scanner.Split(scanCRLF)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := l.dispatch(rw, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// dispatch answers a single command line.
func (l *Link) dispatch(w io.Writer, line string) error {
	l.publish(bus.EventTypeLinkCommand, map[string]any{"cmd": line})

	switch strings.ToLower(line) {
	case "start smile":
		l.ind.Set(true)
		l.publish(bus.EventTypeLinkIndicator, map[string]any{"on": true})
		return l.reply(w, ackReply{Ack: "start_smile"})
	case "stop":
		l.ind.Set(false)
		l.publish(bus.EventTypeLinkIndicator, map[string]any{"on": false})
		return l.reply(w, ackReply{Ack: "stop"})
	default:
		l.log.Debug().Str("cmd", line).Msg("unknown command")
		return l.reply(w, errorReply{Error: "unknown_cmd", Cmd: line})
	}
}

// reply writes one JSON object followed by a newline.
func (l *Link) reply(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

// ListenTCP accepts connections on addr and serves a session on each. It
// returns when the context is canceled.
func (l *Link) ListenTCP(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return l.serveListener(ctx, ln)
}

// serveListener runs sessions off an accept loop. Cancellation closes the
// listener and every live connection, so idle sessions blocked in a read
// unwind immediately.
func (l *Link) serveListener(ctx context.Context, ln net.Listener) error {
	l.log.Info().Str("addr", ln.Addr().String()).Msg("control link listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go func() {
			defer conn.Close()
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()
			if err := l.Serve(ctx, conn); err != nil && err != io.EOF && ctx.Err() == nil {
				l.log.Warn().Err(err).Msg("link session ended")
			}
		}()
	}
}

func (l *Link) publish(t bus.EventType, data map[string]any) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(bus.Event{Type: t, Data: data})
}

// scanCRLF splits on '\n' or '\r' so bare-CR terminals work too.
func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
