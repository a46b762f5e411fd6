package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*TurnSubmission, error)

// Connection is the line protocol with the match engine: messages arrive on
// one stream and turns are written to another.
type Connection struct {
	r        *bufio.Reader
	w        io.Writer
	handlers map[string]Handler
}

func NewConnection(r io.Reader, w io.Writer, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		r:        bufio.NewReaderSize(r, 1<<20),
		w:        w,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Submit writes a turn as two lines. Empty lists are sent as [] so the
// engine always receives both.
func (c *Connection) Submit(t TurnSubmission) error {
	build, deploy := t.Build, t.Deploy
	if build == nil {
		build = []Placement{}
	}
	if deploy == nil {
		deploy = []Placement{}
	}
	if err := WriteLine(c.w, build); err != nil {
		return fmt.Errorf("submit build list: %w", err)
	}
	if err := WriteLine(c.w, deploy); err != nil {
		return fmt.Errorf("submit deploy list: %w", err)
	}
	return nil
}

// ReadLoop blocks until the input ends. Unreadable or unhandled lines are
// logged and skipped; a failed write ends the loop.
func (c *Connection) ReadLoop() error {
	for {
		env, err := ReadEnvelope(c.r)
		if errors.Is(err, io.EOF) {
			slog.Info("input closed")
			return nil
		}
		if isReadError(err) {
			return err
		}
		if err != nil {
			slog.Warn("skipping message", "error", err)
			continue
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.Submit(*resp); err != nil {
				slog.Error("failed to submit turn", "error", err)
				return err
			}
			slog.Debug("turn submitted", "build", len(resp.Build), "deploy", len(resp.Deploy))
		}
	}
}

// isReadError reports whether err came from the underlying reader rather
// than from decoding a line.
func isReadError(err error) bool {
	var re *readError
	return errors.As(err, &re)
}

type readError struct{ err error }

func (e *readError) Error() string { return "read line: " + e.err.Error() }
func (e *readError) Unwrap() error { return e.err }
