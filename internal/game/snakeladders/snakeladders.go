// Package snakeladders implements a 100-square race between the player and a
// scripted opponent that rolls immediately after every player turn.
package snakeladders

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gamearena/internal/game"
)

const (
	Size    = 10
	Squares = Size * Size
)

var (
	// Snakes maps a snake's head to its tail.
	Snakes = map[int]int{99: 54, 95: 75, 87: 24, 62: 19, 48: 26, 36: 6, 16: 4}
	// Ladders maps a ladder's foot to its top.
	Ladders = map[int]int{2: 38, 7: 14, 8: 31, 15: 26, 21: 42, 28: 84, 51: 67, 71: 91, 78: 98, 80: 100}
)

// Side identifies a racer.
type Side int

const (
	Player Side = iota
	AI
)

func (s Side) String() string {
	if s == AI {
		return "ai"
	}
	return "player"
}

func (s Side) label() string {
	if s == AI {
		return "AI"
	}
	return "You"
}

// Square numbers the board cell at (row, col), 1 at the bottom left,
// alternating direction every row.
func Square(row, col int) int {
	fromBottom := Size - 1 - row
	base := fromBottom * Size
	if fromBottom%2 == 0 {
		return base + col + 1
	}
	return base + Size - col
}

// Track is the board published in views.
type Track struct {
	Positions map[string]int `json:"positions"`
	LastRoll  int            `json:"lastRoll"`
	Snakes    map[int]int    `json:"snakes"`
	Ladders   map[int]int    `json:"ladders"`
}

// SnakeLadders implements game.Game.
type SnakeLadders struct{}

func (SnakeLadders) Info() game.GameInfo {
	return game.GameInfo{Name: "snake-ladders", Title: "Snakes & Ladders", Category: "dice", MinPlayers: 1, MaxPlayers: 1}
}

func (SnakeLadders) NewMatch(cfg game.MatchConfig) game.Match {
	return &Match{state: NewState(), rng: cfg.Rng()}
}

type State struct {
	Positions [2]int
	Turn      Side
	Status    game.Status
	LastRoll  int
	Message   string
}

func NewState() State {
	return State{Turn: Player, Status: game.StatusOngoing, Message: "Roll the dice to start!"}
}

// Advance moves side by roll. Overshooting the last square forfeits the move.
// Landing on a snake head or ladder foot jumps to its other end.
func Advance(s State, side Side, roll int) State {
	s.LastRoll = roll
	next := s.Positions[side] + roll
	switch {
	case next > Squares:
		s.Message = side.label() + " need exact number to win!"
		s.Turn = 1 - side
		return s
	case Snakes[next] != 0:
		s.Message = fmt.Sprintf("%s hit a snake! Going down from %d to %d", side.label(), next, Snakes[next])
		next = Snakes[next]
	case Ladders[next] != 0:
		s.Message = fmt.Sprintf("%s found a ladder! Climbing from %d to %d", side.label(), next, Ladders[next])
		next = Ladders[next]
	default:
		s.Message = fmt.Sprintf("%s moved to %d", side.label(), next)
	}
	s.Positions[side] = next
	if next >= Squares {
		s.Message = side.label() + " wins!"
		if side == Player {
			s.Status = game.StatusWin
		} else {
			s.Status = game.StatusLose
		}
		return s
	}
	s.Turn = 1 - side
	return s
}

func roll(rng *rand.Rand) int { return rng.IntN(6) + 1 }

// advanceUntilHumanTurn plays the scripted opponent until the player is to
// move or the race is over.
func advanceUntilHumanTurn(s State, rng *rand.Rand) State {
	var log []string
	for s.Turn == AI && !s.Status.Terminal() {
		s = Advance(s, AI, roll(rng))
		log = append(log, s.Message)
	}
	if len(log) > 0 {
		s.Message = strings.Join(log, ". ")
	}
	return s
}

// Step rolls for the player and then lets the opponent take its turn.
func Step(s State, a game.Action, rng *rand.Rand) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if a.Type != game.ActionRoll {
		return s, fmt.Errorf("snake-ladders: %w: %s", game.ErrUnknownAction, a.Type)
	}
	s = Advance(s, Player, roll(rng))
	mine := s.Message
	s = advanceUntilHumanTurn(s, rng)
	if s.Message != mine {
		s.Message = mine + ". " + s.Message
	}
	return s, nil
}

// Match is the snakes and ladders controller.
type Match struct {
	state State
	rng   *rand.Rand
}

func (m *Match) Apply(a game.Action) error {
	next, err := Step(m.state, a, m.rng)
	if err != nil {
		return err
	}
	m.state = next
	return nil
}

func (m *Match) State() State { return m.state }

func (m *Match) IsOver() bool { return m.state.Status.Terminal() }

func (m *Match) View() game.View {
	s := m.state
	v := game.View{
		Game: "snake-ladders",
		Board: Track{
			Positions: map[string]int{Player.String(): s.Positions[Player], AI.String(): s.Positions[AI]},
			LastRoll:  s.LastRoll,
			Snakes:    Snakes,
			Ladders:   Ladders,
		},
		CurrentPlayer: s.Turn.String(),
		Status:        s.Status,
		Score:         s.Positions[Player],
		Message:       s.Message,
	}
	switch s.Status {
	case game.StatusWin:
		v.Winner = Player.String()
	case game.StatusLose:
		v.Winner = AI.String()
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	s := m.state
	rows := make([][]string, Size)
	for r := range rows {
		rows[r] = make([]string, Size)
		for c := range rows[r] {
			n := Square(r, c)
			g := ""
			if s.Positions[Player] == n {
				g += "P"
			}
			if s.Positions[AI] == n {
				g += "A"
			}
			switch {
			case g != "":
			case Snakes[n] != 0:
				g = "S"
			case Ladders[n] != 0:
				g = "L"
			default:
				g = "."
			}
			rows[r][c] = g
		}
	}
	return rows
}
