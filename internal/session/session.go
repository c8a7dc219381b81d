package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"gamearena/internal/arena"
	"gamearena/internal/game"
)

// MaxViewers caps the connections watching one session.
const MaxViewers = 16

var (
	ErrNotHost = errors.New("only the host can control the arena")
	ErrFull    = errors.New("session is full")
)

// Status represents the session lifecycle.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Player is one connection of a viewer.
type Player struct {
	ID   string
	Send chan []byte // outbound messages
	done chan struct{}
}

// Done is closed when the connection leaves or a newer connection takes
// over its id.
func (p *Player) Done() <-chan struct{} { return p.done }

// Session is one arena with the viewers watching it. The host drives the
// arena; everyone else only receives state.
type Session struct {
	mu         sync.RWMutex
	Code       string
	HostID     string
	Players    map[string]*Player
	arena      *arena.Arena
	lastActive time.Time
	// recorded is set once the current match's result has been stored
	recorded bool
}

// NewSession wraps a running arena.
func NewSession(code, hostID string, a *arena.Arena) *Session {
	return &Session{
		Code:       code,
		HostID:     hostID,
		Players:    make(map[string]*Player),
		arena:      a,
		lastActive: time.Now(),
	}
}

// Join attaches a connection for playerID. A known id replaces its previous
// connection, whose Done channel is closed. New viewers are refused once
// MaxViewers are connected, except the host. The first viewer of a hostless
// session becomes host.
func (s *Session) Join(playerID string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.Players[playerID]; ok {
		close(old.done)
	} else if len(s.Players) >= MaxViewers && playerID != s.HostID {
		return nil, ErrFull
	}
	p := &Player{
		ID:   playerID,
		Send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
	s.Players[playerID] = p
	if s.HostID == "" {
		s.HostID = playerID
	}
	return p, nil
}

// Leave detaches p. It reports false if p had already been replaced by a
// newer connection for the same id.
func (s *Session) Leave(p *Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Players[p.ID] != p {
		return false
	}
	close(p.done)
	delete(s.Players, p.ID)
	return true
}

func (s *Session) playerIDsLocked() []string {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Broadcast sends a message to all connected viewers.
func (s *Session) Broadcast(msg []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.Players {
		select {
		case p.Send <- msg:
		default:
			// drop message if buffer full
		}
	}
}

// Apply forwards a host action to the arena. finished reports that this
// action ended the match and its result has not been claimed yet.
func (s *Session) Apply(playerID string, act game.Action) (v game.View, finished bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playerID != s.HostID {
		return s.arena.View(), false, ErrNotHost
	}
	s.lastActive = time.Now()
	v, err = s.arena.Apply(act)
	if err == nil && s.arena.IsOver() && !s.recorded {
		s.recorded = true
		finished = true
	}
	return v, finished, err
}

// Reset starts the current game over.
func (s *Session) Reset(playerID string) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playerID != s.HostID {
		return s.arena.View(), ErrNotHost
	}
	s.lastActive = time.Now()
	s.recorded = false
	return s.arena.Reset(), nil
}

// Switch discards the current match and starts gameType.
func (s *Session) Switch(playerID, gameType string) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playerID != s.HostID {
		return s.arena.View(), ErrNotHost
	}
	v, err := s.arena.Switch(gameType)
	if err != nil {
		return s.arena.View(), err
	}
	s.lastActive = time.Now()
	s.recorded = false
	return v, nil
}

func (s *Session) View() game.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arena.View()
}

func (s *Session) GameType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arena.GameType()
}

// Summary condenses the running game for the coach.
func (s *Session) Summary() arena.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arena.Summary()
}

// Snapshot returns the view and session info under one lock.
func (s *Session) Snapshot() (game.View, Info) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arena.View(), s.infoLocked()
}

// LastActive is the time of the last host action.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Info is the session summary served by the API.
type Info struct {
	Code     string   `json:"code"`
	GameType string   `json:"gameType"`
	Status   Status   `json:"status"`
	Players  []string `json:"players"`
	HostID   string   `json:"hostId"`
}

func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() Info {
	status := StatusActive
	if s.arena.IsOver() {
		status = StatusFinished
	}
	return Info{
		Code:     s.Code,
		GameType: s.arena.GameType(),
		Status:   status,
		Players:  s.playerIDsLocked(),
		HostID:   s.HostID,
	}
}
