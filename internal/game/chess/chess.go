// Package chess implements simplified chess: full piece movement and pawn
// promotion, with "checkmate" meaning the side to move has no legal move.
// Check, pins, castling and en passant are not modelled.
package chess

import (
	"fmt"
	"slices"

	"gamearena/internal/game"
)

// Chess implements game.Game.
type Chess struct{}

func (Chess) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "chess",
		Title:      "Chess",
		Category:   "strategy",
		MinPlayers: 2,
		MaxPlayers: 2,
	}
}

func (Chess) NewMatch(game.MatchConfig) game.Match {
	return &Match{state: NewState()}
}

// State is the full controller state. It is a value: Step never mutates
// its input.
type State struct {
	Board    Board
	Turn     Color
	Status   game.Status
	Winner   Color
	Selected *game.Position
	Targets  []game.Position
	Moves    []Move // history, oldest first
}

// NewState returns the opening position with white to move.
func NewState() State {
	return State{Board: NewBoard(), Turn: White, Status: game.StatusOngoing}
}

// Step applies one click to s.
//
//   - nothing selected, own piece clicked: select it and list its moves
//   - selection active, legal target clicked: move, then test for checkmate
//   - selection active, another own piece clicked: reselect
//   - selection active, anything else: drop the selection
func Step(s State, a game.Action) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if a.Type != game.ActionSelect {
		return s, fmt.Errorf("chess: %w: %s", game.ErrUnknownAction, a.Type)
	}
	at := a.Pos()
	clicked := s.Board.At(at)
	own := !clicked.Empty() && clicked.Color == s.Turn

	switch {
	case s.Selected != nil && game.Contains(s.Targets, at):
		m := Move{From: *s.Selected, To: at, Piece: s.Board.At(*s.Selected)}
		s.Board = ApplyMove(s.Board, m)
		s.Moves = append(slices.Clip(s.Moves), m)
		s.Selected, s.Targets = nil, nil
		next := s.Turn.Opponent()
		if IsCheckmate(s.Board, next) {
			s.Status = game.StatusCheckmate
			s.Winner = s.Turn
			return s, nil
		}
		s.Turn = next
	case own:
		sel := at
		s.Selected = &sel
		s.Targets = ValidMoves(s.Board, at, clicked)
	case s.Selected != nil:
		s.Selected, s.Targets = nil, nil
	default:
		return s, game.ErrIllegalMove
	}
	return s, nil
}

// Match is the chess controller.
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

// State returns a copy of the controller state.
func (m *Match) State() State { return m.state }

func (m *Match) IsOver() bool { return m.state.Status.Terminal() }

func (m *Match) View() game.View {
	s := m.state
	v := game.View{
		Game:          "chess",
		Board:         s.Board,
		CurrentPlayer: s.Turn.String(),
		Status:        s.Status,
		Selected:      s.Selected,
		ValidMoves:    s.Targets,
		Winner:        s.Winner.String(),
	}
	if n := len(s.Moves); n > 0 {
		v.Message = fmt.Sprintf("Move %d: %s", n, s.Moves[n-1])
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	rows := make([][]string, Size)
	for r := range m.state.Board {
		rows[r] = make([]string, Size)
		for c, pc := range m.state.Board[r] {
			rows[r][c] = pc.glyph()
		}
	}
	return rows
}
