package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/engine"
	"github.com/roughboard/roughboard/internal/export"
	"github.com/roughboard/roughboard/internal/render"
)

var ErrClosed = errors.New("session closed")

// Session is one canvas. Its engine is owned by a single goroutine; every
// read or write of the scene goes through that goroutine's inbox.
type Session struct {
	ID string

	engine   *engine.Engine
	buffer   *render.CommandBuffer
	pageSize string
	clients  map[string]*Client
	seq      int64
	frames   int

	inbox  chan func()
	cancel context.CancelFunc
	done   chan struct{}
	logger *slog.Logger
}

func newSession(id string, factory *element.Factory, pageSize string, logger *slog.Logger) *Session {
	buffer := render.NewCommandBuffer()
	logger = logger.With("session", id)
	return &Session{
		ID:       id,
		engine:   engine.NewEngine(factory, engine.WithSurface(buffer), engine.WithLogger(logger)),
		buffer:   buffer,
		pageSize: pageSize,
		clients:  make(map[string]*Client),
		frames:   buffer.Frames(),
		inbox:    make(chan func(), 64),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case fn := <-s.inbox:
			fn()
		case <-ctx.Done():
			for id, c := range s.clients {
				delete(s.clients, id)
				close(c.send)
			}
			return
		}
	}
}

// do runs fn on the session goroutine and waits for it to finish.
func (s *Session) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case s.inbox <- task:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply processes events in order and returns the resulting frame. It
// stops at the first invalid event.
func (s *Session) Apply(ctx context.Context, events ...engine.Event) (Frame, error) {
	var (
		frame    Frame
		applyErr error
	)
	err := s.do(ctx, func() {
		for _, ev := range events {
			before := s.engine.State()
			if applyErr = s.engine.Apply(ev); applyErr != nil {
				applyErr = fmt.Errorf("apply %s: %w", ev.Type, applyErr)
				break
			}
			if s.buffer.Frames() != s.frames || stateChanged(before, s.engine.State()) {
				s.frames = s.buffer.Frames()
				s.seq++
				s.broadcast(s.frameMessage())
			}
		}
		frame = s.currentFrame()
	})
	if err != nil {
		return Frame{}, err
	}
	return frame, applyErr
}

// Frame returns the current frame.
func (s *Session) Frame(ctx context.Context) (Frame, error) {
	var frame Frame
	err := s.do(ctx, func() {
		frame = s.currentFrame()
	})
	return frame, err
}

// ExportPDF writes the current scene as a PDF. Each call renders into its
// own document.
func (s *Session) ExportPDF(ctx context.Context, w io.Writer) error {
	var elements []element.Element
	if err := s.do(ctx, func() {
		elements = s.engine.Elements()
	}); err != nil {
		return err
	}
	pdf := export.NewPDF(s.pageSize)
	if err := pdf.Draw(elements); err != nil {
		return fmt.Errorf("export session %s: %w", s.ID, err)
	}
	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("export session %s: %w", s.ID, err)
	}
	return nil
}

func (s *Session) attach(ctx context.Context, c *Client) error {
	return s.do(ctx, func() {
		s.clients[c.ClientID] = c
		welcome, _ := json.Marshal(WelcomePayload{SessionID: s.ID, ClientID: c.ClientID})
		c.Send(&Message{Type: TypeWelcome, SessionID: s.ID, ClientID: c.ClientID, Payload: welcome})
		c.Send(s.frameMessage())
		s.logger.Info("client attached", "client", c.ClientID, "clients", len(s.clients))
	})
}

func (s *Session) detach(ctx context.Context, c *Client) {
	err := s.do(ctx, func() {
		if _, ok := s.clients[c.ClientID]; !ok {
			return
		}
		delete(s.clients, c.ClientID)
		close(c.send)
		s.logger.Info("client detached", "client", c.ClientID, "clients", len(s.clients))
	})
	// A closed session already closed every client's send channel.
	if err != nil && !errors.Is(err, ErrClosed) {
		s.logger.Warn("detach client", "client", c.ClientID, "error", err)
	}
}

// Only called on the session goroutine.
func (s *Session) currentFrame() Frame {
	return Frame{
		Seq:      s.seq,
		Commands: json.RawMessage(s.buffer.JSON()),
		State:    s.engine.State(),
		Elements: len(s.engine.Elements()),
	}
}

func (s *Session) frameMessage() *Message {
	payload, err := json.Marshal(s.currentFrame())
	if err != nil {
		s.logger.Error("marshal frame", "error", err)
		payload = json.RawMessage(`null`)
	}
	return &Message{Type: TypeFrame, SessionID: s.ID, Seq: s.seq, Payload: payload}
}

func (s *Session) broadcast(msg *Message) {
	for _, c := range s.clients {
		c.Send(msg)
	}
}

func stateChanged(a, b engine.State) bool {
	if a.Tool != b.Tool || a.Action != b.Action {
		return true
	}
	return (a.Selected == nil) != (b.Selected == nil)
}
