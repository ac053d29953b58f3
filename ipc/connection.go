package ipc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
)

// Handler processes a received frame. Return nil to send no reply.
type Handler func(f Frame) (*Reply, error)

// Reply is written as one JSON line per element of Lines.
type Reply struct {
	Lines []any
}

// Connection is the stdio link to the game engine: frames arrive one per
// line on the reader, replies leave one per line on the writer.
type Connection struct {
	sc       *bufio.Scanner
	w        io.Writer
	handlers map[string]Handler
}

func NewConnection(r io.Reader, w io.Writer, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		sc:       NewScanner(r),
		w:        w,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(kind string, handler Handler) {
	c.handlers[kind] = handler
}

func (c *Connection) Send(r Reply) error {
	for _, line := range r.Lines {
		if err := WriteLine(c.w, line); err != nil {
			return err
		}
	}
	return nil
}

// ReadLoop blocks until the stream ends, a handler reports ErrEndOfGame, or
// ctx is cancelled between frames. Handler errors are logged and the loop
// moves on; only transport failures are returned.
func (c *Connection) ReadLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := ReadFrame(c.sc)
		if errors.Is(err, io.EOF) {
			slog.Info("engine closed the stream")
			return nil
		}
		if errors.Is(err, ErrMalformedFrame) {
			slog.Warn("skipping unreadable frame", "error", err)
			continue
		}
		if err != nil {
			return err
		}

		handler, ok := c.handlers[f.Kind]
		if !ok {
			slog.Warn("no handler for frame kind", "kind", f.Kind)
			continue
		}

		resp, err := handler(f)
		if errors.Is(err, ErrEndOfGame) {
			slog.Info("game over")
			return nil
		}
		if err != nil {
			slog.Error("handler error", "kind", f.Kind, "error", err)
			continue
		}

		if resp != nil {
			if err := c.Send(*resp); err != nil {
				slog.Error("failed to send reply", "kind", f.Kind, "error", err)
				return err
			}
			slog.Debug("sent reply", "kind", f.Kind, "lines", len(resp.Lines))
		}
	}
}
