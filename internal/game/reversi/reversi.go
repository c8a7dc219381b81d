// Package reversi implements Othello-style flanking capture on an 8×8 board.
package reversi

import (
	"fmt"

	"gamearena/internal/game"
)

const Size = 8

// Disc is 0 for empty, 1 for black, 2 for white.
type Disc int8

const (
	Empty Disc = iota
	Black
	White
)

func (d Disc) Opponent() Disc {
	switch d {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (d Disc) String() string {
	switch d {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return ""
}

type Board [Size][Size]Disc

// NewBoard returns the four-disc opening.
func NewBoard() Board {
	var b Board
	b[3][3], b[4][4] = White, White
	b[3][4], b[4][3] = Black, Black
	return b
}

// flanked returns the opponent discs captured along d when player places
// at p: a non-empty run that an own disc closes. Runs ending at an empty
// cell or the edge capture nothing.
func flanked(b Board, p game.Position, d game.Position, player Disc) []game.Position {
	opp := player.Opponent()
	var run []game.Position
	for q := p.Add(d); q.In(Size, Size); q = q.Add(d) {
		switch b[q.Row][q.Col] {
		case opp:
			run = append(run, q)
		case player:
			return run
		default:
			return nil
		}
	}
	return nil
}

// IsLegal reports whether player may place a disc at p.
func IsLegal(b Board, p game.Position, player Disc) bool {
	if !p.In(Size, Size) || b[p.Row][p.Col] != Empty {
		return false
	}
	for _, d := range game.Compass {
		if len(flanked(b, p, d, player)) > 0 {
			return true
		}
	}
	return false
}

// ValidMoves lists every cell player may take, in row-major order.
func ValidMoves(b Board, player Disc) []game.Position {
	var moves []game.Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := game.Position{Row: r, Col: c}
			if IsLegal(b, p, player) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

// Place puts player's disc on p and flips every flanked run.
func Place(b Board, p game.Position, player Disc) Board {
	b[p.Row][p.Col] = player
	for _, d := range game.Compass {
		for _, q := range flanked(b, p, d, player) {
			b[q.Row][q.Col] = player
		}
	}
	return b
}

// Count returns the disc totals.
func Count(b Board) (black, white int) {
	for r := range b {
		for _, d := range b[r] {
			switch d {
			case Black:
				black++
			case White:
				white++
			}
		}
	}
	return black, white
}

// Reversi implements game.Game.
type Reversi struct{}

func (Reversi) Info() game.GameInfo {
	return game.GameInfo{Name: "reversi", Title: "Reversi", Category: "strategy", MinPlayers: 2, MaxPlayers: 2}
}

func (Reversi) NewMatch(game.MatchConfig) game.Match {
	return &Match{state: NewState()}
}

type State struct {
	Board  Board
	Turn   Disc
	Status game.Status
	Winner Disc
	// Passed is set when the previous mover's opponent had no legal cell.
	Passed bool
}

func NewState() State {
	return State{Board: NewBoard(), Turn: Black, Status: game.StatusOngoing}
}

// Step places the mover's disc on a legal cell. Possession passes to the
// opponent when they can move, stays with the mover when only the mover
// can, and the game ends on disc count when neither can. Status is
// reported from black's side.
func Step(s State, a game.Action) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if a.Type != game.ActionSelect {
		return s, fmt.Errorf("reversi: %w: %s", game.ErrUnknownAction, a.Type)
	}
	at := a.Pos()
	if !IsLegal(s.Board, at, s.Turn) {
		return s, game.ErrIllegalMove
	}

	s.Board = Place(s.Board, at, s.Turn)
	s.Passed = false
	next := s.Turn.Opponent()
	switch {
	case len(ValidMoves(s.Board, next)) > 0:
		s.Turn = next
	case len(ValidMoves(s.Board, s.Turn)) > 0:
		s.Passed = true
	default:
		black, white := Count(s.Board)
		switch {
		case black > white:
			s.Status, s.Winner = game.StatusWin, Black
		case black < white:
			s.Status, s.Winner = game.StatusLose, White
		default:
			s.Status = game.StatusDraw
		}
	}
	return s, nil
}

// Match is the reversi controller.
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

func (m *Match) View() game.View {
	s := m.state
	black, white := Count(s.Board)
	v := game.View{
		Game:          "reversi",
		Board:         s.Board,
		CurrentPlayer: s.Turn.String(),
		Status:        s.Status,
		Score:         black,
		Winner:        s.Winner.String(),
		Message:       fmt.Sprintf("black %d, white %d", black, white),
	}
	if s.Passed {
		v.Message = s.Turn.Opponent().String() + " has no move; " + v.Message
	}
	if !s.Status.Terminal() {
		v.ValidMoves = ValidMoves(s.Board, s.Turn)
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	legal := map[game.Position]bool{}
	if !m.IsOver() {
		for _, p := range ValidMoves(m.state.Board, m.state.Turn) {
			legal[p] = true
		}
	}
	rows := make([][]string, Size)
	for r := range m.state.Board {
		rows[r] = make([]string, Size)
		for c, d := range m.state.Board[r] {
			switch {
			case d == Black:
				rows[r][c] = "B"
			case d == White:
				rows[r][c] = "W"
			case legal[game.Position{Row: r, Col: c}]:
				rows[r][c] = "*"
			default:
				rows[r][c] = "."
			}
		}
	}
	return rows
}
