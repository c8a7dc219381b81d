// Package memory implements the 4×4 pairs game.
package memory

import (
	"fmt"
	"slices"

	"gamearena/internal/game"
)

const (
	Size  = 4
	Cards = Size * Size
)

// Faces are the eight card symbols; each appears twice per deck.
var Faces = [Cards / 2]string{"🎮", "🎯", "🎲", "🎪", "🎨", "🎭", "🎵", "🎹"}

// Card is the public view of one card. Face is empty while the card is down.
type Card struct {
	Face     string `json:"face,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// Memory implements game.Game.
type Memory struct{}

func (Memory) Info() game.GameInfo {
	return game.GameInfo{Name: "memory", Title: "Memory", Category: "puzzle", MinPlayers: 1, MaxPlayers: 1}
}

func (Memory) NewMatch(cfg game.MatchConfig) game.Match {
	deck := make([]string, 0, Cards)
	deck = append(deck, Faces[:]...)
	deck = append(deck, Faces[:]...)
	rng := cfg.Rng()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	var layout [Cards]string
	copy(layout[:], deck)
	return &Match{state: NewState(layout)}
}

type State struct {
	Deck    [Cards]string
	Matched [Cards]bool
	// Pending holds the face-up unmatched cards, at most two.
	Pending []int
	// Turns counts completed pair reveals.
	Turns  int
	Score  int
	Status game.Status
}

func NewState(deck [Cards]string) State {
	return State{Deck: deck, Status: game.StatusOngoing}
}

func (s State) matchedCount() int {
	n := 0
	for _, m := range s.Matched {
		if m {
			n++
		}
	}
	return n
}

// Selectable reports whether card i may be turned over now.
func Selectable(s State, i int) bool {
	if i < 0 || i >= Cards || s.Matched[i] || len(s.Pending) >= 2 {
		return false
	}
	return !slices.Contains(s.Pending, i)
}

// Step turns cards over and compares pairs. A mismatched pair stays face up
// until a conceal action, and no third card may be revealed meanwhile.
func Step(s State, a game.Action) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	switch a.Type {
	case game.ActionConceal:
		if len(s.Pending) != 2 {
			return s, game.ErrIllegalMove
		}
		s.Pending = nil
		return s, nil
	case game.ActionFlip:
	case game.ActionSelect:
		if !a.Pos().In(Size, Size) {
			return s, game.ErrIllegalMove
		}
		a.Index = a.Row*Size + a.Col
	default:
		return s, fmt.Errorf("memory: %w: %s", game.ErrUnknownAction, a.Type)
	}

	i := a.Index
	if !Selectable(s, i) {
		return s, game.ErrIllegalMove
	}
	s.Pending = append(slices.Clone(s.Pending), i)
	if len(s.Pending) < 2 {
		return s, nil
	}

	previous := s.Turns
	s.Turns++
	first, second := s.Pending[0], s.Pending[1]
	if s.Deck[first] != s.Deck[second] {
		return s, nil
	}
	s.Matched[first], s.Matched[second] = true, true
	s.Pending = nil
	matched := s.matchedCount()
	s.Score = max(0, matched*10-previous*2)
	if matched == Cards {
		s.Status = game.StatusWin
	}
	return s, nil
}

// Match is the memory controller.
type Match struct {
	state State
}

func (m *Match) Apply(a game.Action) error {
	next, err := Step(m.state, a)
	if err != nil {
		return err
	}
	m.state = next
	return nil
}

func (m *Match) State() State { return m.state }

func (m *Match) IsOver() bool { return m.state.Status.Terminal() }

func (m *Match) cards() []Card {
	s := m.state
	cards := make([]Card, Cards)
	for i := range cards {
		up := s.Matched[i] || slices.Contains(s.Pending, i)
		cards[i] = Card{Revealed: up, Matched: s.Matched[i]}
		if up {
			cards[i].Face = s.Deck[i]
		}
	}
	return cards
}

func (m *Match) View() game.View {
	s := m.state
	v := game.View{
		Game:          "memory",
		Board:         m.cards(),
		CurrentPlayer: "player",
		Status:        s.Status,
		Score:         s.Score,
		Message:       fmt.Sprintf("Moves: %d, Pairs: %d/%d", s.Turns, s.matchedCount()/2, len(Faces)),
	}
	if s.Status == game.StatusWin {
		v.Winner = "player"
	}
	if !s.Status.Terminal() {
		for i := 0; i < Cards; i++ {
			if Selectable(s, i) {
				v.ValidMoves = append(v.ValidMoves, game.Position{Row: i / Size, Col: i % Size})
			}
		}
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	cards := m.cards()
	rows := make([][]string, Size)
	for r := range rows {
		rows[r] = make([]string, Size)
		for c := range rows[r] {
			card := cards[r*Size+c]
			if card.Revealed {
				rows[r][c] = card.Face
			} else {
				rows[r][c] = "?"
			}
		}
	}
	return rows
}
