// Package arena drives one active game at a time through the game.Match
// interface. It owns the reset and game-switch controls; the match itself
// owns all rule state.
package arena

import (
	"fmt"
	"math/rand/v2"

	"gamearena/internal/game"
)

// Summary is the compact game state handed to the coach.
type Summary struct {
	Game          string `json:"gameType"`
	CurrentPlayer string `json:"currentPlayer"`
	Status        string `json:"status"`
	Score         int    `json:"score"`
}

// Option configures an Arena.
type Option func(*Arena)

// WithRand makes every match draw from rng. Tests use it for fixed layouts.
func WithRand(rng *rand.Rand) Option {
	return func(a *Arena) { a.rng = rng }
}

// Arena holds the active match. It is not safe for concurrent use; callers
// serialise access (session.Session does so with its mutex).
type Arena struct {
	registry *game.Registry
	rng      *rand.Rand
	gameType string
	match    game.Match
}

// New starts an arena on gameType.
func New(registry *game.Registry, gameType string, opts ...Option) (*Arena, error) {
	a := &Arena{registry: registry}
	for _, opt := range opts {
		opt(a)
	}
	if _, err := a.Switch(gameType); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) config() game.MatchConfig {
	return game.MatchConfig{Rand: a.rng}
}

// GameType returns the name of the active game.
func (a *Arena) GameType() string { return a.gameType }

// Info returns the active game's lobby info.
func (a *Arena) Info() game.GameInfo {
	g, _ := a.registry.Get(a.gameType)
	return g.Info()
}

// Apply forwards an action to the active match and returns the resulting view.
// On error the match is unchanged and the returned view is the current one.
func (a *Arena) Apply(act game.Action) (game.View, error) {
	err := a.match.Apply(act)
	return a.match.View(), err
}

func (a *Arena) View() game.View { return a.match.View() }

func (a *Arena) IsOver() bool { return a.match.IsOver() }

func (a *Arena) Glyphs() [][]string { return a.match.Glyphs() }

// Reset rebuilds the active game from its initial layout.
func (a *Arena) Reset() game.View {
	m, err := a.registry.NewMatch(a.gameType, a.config())
	if err != nil {
		// gameType was validated when it became active
		panic(err)
	}
	a.match = m
	return m.View()
}

// Switch discards the active match and starts gameType. An unknown name
// leaves the arena as it was.
func (a *Arena) Switch(gameType string) (game.View, error) {
	m, err := a.registry.NewMatch(gameType, a.config())
	if err != nil {
		return game.View{}, fmt.Errorf("switch game: %w", err)
	}
	a.gameType = gameType
	a.match = m
	return m.View(), nil
}

// Summary condenses the current view for the coach.
func (a *Arena) Summary() Summary {
	v := a.match.View()
	return Summary{
		Game:          a.gameType,
		CurrentPlayer: v.CurrentPlayer,
		Status:        string(v.Status),
		Score:         v.Score,
	}
}
