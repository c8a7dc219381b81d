package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"gamearena/internal/arena"
	"gamearena/internal/game"
	"gamearena/internal/metrics"
	"gamearena/internal/storage"
)

// Manager manages all live sessions. Sessions exist only in memory; the store
// keeps an index row per session and the results of finished games.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	registry *game.Registry
	store    *storage.Store
	logger   *zap.Logger
	opts     []arena.Option
}

// NewManager creates a session manager. opts are applied to every arena it
// starts.
func NewManager(registry *game.Registry, store *storage.Store, logger *zap.Logger, opts ...arena.Option) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		registry: registry,
		store:    store,
		logger:   logger.With(zap.String("component", "session")),
		opts:     opts,
	}
}

// Create starts a session running gameType. hostID may be empty, in which
// case the first viewer to join becomes host.
func (m *Manager) Create(gameType, hostID string) (*Session, error) {
	a, err := arena.New(m.registry, gameType, m.opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	code := generateCode()
	for m.sessions[code] != nil {
		code = generateCode()
	}
	s := NewSession(code, hostID, a)
	m.sessions[code] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))

	if err := m.store.CreateSession(code, gameType); err != nil {
		m.logger.Warn("persist session", zap.String("code", code), zap.Error(err))
	}
	m.logger.Info("session created", zap.String("code", code), zap.String("game", gameType))
	return s, nil
}

// Get returns a session by code.
func (m *Manager) Get(code string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[code]
	return s, ok
}

// List returns info for all live sessions, ordered by code.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, s.Info())
	}
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.Code, b.Code) })
	return infos
}

// Act applies a host action and records the result when it ends the match.
func (m *Manager) Act(s *Session, playerID string, act game.Action) (game.View, error) {
	gameType := s.GameType()
	v, finished, err := s.Apply(playerID, act)
	switch {
	case err == nil:
		metrics.Actions.WithLabelValues(gameType, "ok").Inc()
	case errors.Is(err, game.ErrIllegalMove):
		metrics.Actions.WithLabelValues(gameType, "illegal").Inc()
	default:
		metrics.Actions.WithLabelValues(gameType, "rejected").Inc()
	}
	if finished {
		m.recordResult(s.Code, gameType, v)
	}
	return v, err
}

func (m *Manager) recordResult(code, gameType string, v game.View) {
	metrics.GamesFinished.WithLabelValues(gameType, string(v.Status)).Inc()
	id, err := m.store.RecordResult(storage.ResultRow{
		SessionCode: code,
		GameType:    gameType,
		Status:      string(v.Status),
		Winner:      v.Winner,
		Score:       v.Score,
	})
	if err != nil {
		m.logger.Warn("record result", zap.String("code", code), zap.Error(err))
		return
	}
	if err := m.store.UpdateSessionStatus(code, string(StatusFinished)); err != nil {
		m.logger.Warn("update session status", zap.String("code", code), zap.Error(err))
	}
	m.logger.Info("game finished",
		zap.String("code", code),
		zap.String("game", gameType),
		zap.String("status", string(v.Status)),
		zap.Int("score", v.Score),
		zap.String("result", id),
	)
}

// Reset restarts the session's current game.
func (m *Manager) Reset(s *Session, playerID string) (game.View, error) {
	v, err := s.Reset(playerID)
	if err != nil {
		return v, err
	}
	if err := m.store.UpdateSessionStatus(s.Code, string(StatusActive)); err != nil {
		m.logger.Warn("update session status", zap.String("code", s.Code), zap.Error(err))
	}
	return v, nil
}

// Switch moves the session to another game.
func (m *Manager) Switch(s *Session, playerID, gameType string) (game.View, error) {
	v, err := s.Switch(playerID, gameType)
	if err != nil {
		return v, err
	}
	if err := m.store.UpdateSessionGame(s.Code, gameType); err != nil {
		m.logger.Warn("update session game", zap.String("code", s.Code), zap.Error(err))
	}
	m.logger.Info("game switched", zap.String("code", s.Code), zap.String("game", gameType))
	return v, nil
}

// Reconcile drops session rows left by a previous process. Match state is
// never persisted, so those sessions cannot be resumed.
func (m *Manager) Reconcile() (int, error) {
	rows, err := m.store.ListSessions("")
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	removed := 0
	for _, row := range rows {
		if _, live := m.Get(row.Code); live {
			continue
		}
		if err := m.store.DeleteSession(row.Code); err != nil {
			return removed, fmt.Errorf("delete session %s: %w", row.Code, err)
		}
		removed++
	}
	return removed, nil
}

// Remove deletes a session from memory and storage.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	delete(m.sessions, code)
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
	if err := m.store.DeleteSession(code); err != nil {
		m.logger.Warn("delete session", zap.String("code", code), zap.Error(err))
	}
}

// CleanupLoop removes idle sessions every interval until ctx is done.
func (m *Manager) CleanupLoop(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.cleanup(now, maxAge)
		}
	}
}

// cleanup removes sessions idle for longer than maxAge and returns how many.
func (m *Manager) cleanup(now time.Time, maxAge time.Duration) int {
	m.mu.RLock()
	var stale []string
	for code, s := range m.sessions {
		if now.Sub(s.LastActive()) > maxAge {
			stale = append(stale, code)
		}
	}
	m.mu.RUnlock()

	for _, code := range stale {
		m.logger.Info("cleaning up session", zap.String("code", code))
		m.Remove(code)
	}
	return len(stale)
}

func generateCode() string {
	b := make([]byte, 3) // 6 hex chars
	rand.Read(b)
	return hex.EncodeToString(b)
}
