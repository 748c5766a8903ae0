package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/typeid"
)

var ErrNotFound = errors.New("session not found")

// Hub owns the set of live sessions. Each session runs on its own goroutine.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	renderer element.Renderer
	pageSize string
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(renderer element.Renderer, pageSize string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sessions: make(map[string]*Session),
		renderer: renderer,
		pageSize: pageSize,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Open starts a new empty session.
func (h *Hub) Open() *Session {
	id := typeid.NewSessionID()
	s := newSession(id, element.NewFactory(h.renderer), h.pageSize, h.logger)

	ctx, cancel := context.WithCancel(h.ctx)
	s.cancel = cancel

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		s.run(ctx)
	}()

	h.logger.Info("session opened", "session", id)
	return s
}

func (h *Hub) Get(id string) (*Session, error) {
	if err := typeid.Validate(id, typeid.PrefixSession); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close stops a session and disconnects its clients.
func (h *Hub) Close(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.cancel()
	<-s.done
	h.logger.Info("session closed", "session", id)
	return nil
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Stop closes every session and waits for their goroutines to exit.
func (h *Hub) Stop() {
	h.cancel()
	h.wg.Wait()
	h.mu.Lock()
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()
}
