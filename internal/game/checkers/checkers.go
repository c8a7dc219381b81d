// Package checkers implements draughts on an 8×8 board with single jump
// captures. Multi-jump chains and forced captures are not enforced.
package checkers

import (
	"encoding/json"
	"fmt"

	"gamearena/internal/game"
)

const Size = 8

type Color int8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Piece is a man or, once promoted, a king. The zero value is an empty square.
type Piece struct {
	Color Color `json:"color"`
	King  bool  `json:"isKing"`
}

func (p Piece) Empty() bool { return p.Color == NoColor }

type Board [Size][Size]Piece

func (b *Board) At(p game.Position) Piece {
	if !p.In(Size, Size) {
		return Piece{}
	}
	return b[p.Row][p.Col]
}

func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for r := range b {
		rows[r] = make([]*Piece, Size)
		for c := range b[r] {
			if !b[r][c].Empty() {
				pc := b[r][c]
				rows[r][c] = &pc
			}
		}
	}
	return json.Marshal(rows)
}

// NewBoard places black men on the dark squares of rows 0-2 and white men
// on rows 5-7.
func NewBoard() Board {
	var b Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if (r+c)%2 == 0 {
				continue
			}
			switch {
			case r < 3:
				b[r][c] = Piece{Color: Black}
			case r >= 5:
				b[r][c] = Piece{Color: White}
			}
		}
	}
	return b
}

func directions(p Piece) []game.Position {
	switch {
	case p.King:
		return game.Diagonal
	case p.Color == White:
		return []game.Position{{Row: -1, Col: -1}, {Row: -1, Col: 1}}
	default:
		return []game.Position{{Row: 1, Col: -1}, {Row: 1, Col: 1}}
	}
}

// ValidMoves lists the diagonal steps and single jumps open to p at from.
func ValidMoves(b Board, from game.Position, p Piece) []game.Position {
	if !from.In(Size, Size) || p.Empty() {
		return nil
	}
	var moves []game.Position
	for _, d := range directions(p) {
		to := from.Add(d)
		if !to.In(Size, Size) {
			continue
		}
		t := b.At(to)
		if t.Empty() {
			moves = append(moves, to)
			continue
		}
		if t.Color != p.Color {
			jump := to.Add(d)
			if jump.In(Size, Size) && b.At(jump).Empty() {
				moves = append(moves, jump)
			}
		}
	}
	return moves
}

// Move is a single ply.
type Move struct {
	From  game.Position `json:"from"`
	To    game.Position `json:"to"`
	Piece Piece         `json:"piece"`
}

// ApplyMove relocates the piece, removes a jumped piece and crowns men
// reaching the far row.
func ApplyMove(b Board, m Move) Board {
	pc := b[m.From.Row][m.From.Col]
	if abs(m.To.Row-m.From.Row) == 2 {
		b[(m.To.Row+m.From.Row)/2][(m.To.Col+m.From.Col)/2] = Piece{}
	}
	if (pc.Color == White && m.To.Row == 0) || (pc.Color == Black && m.To.Row == Size-1) {
		pc.King = true
	}
	b[m.To.Row][m.To.Col] = pc
	b[m.From.Row][m.From.Col] = Piece{}
	return b
}

// HasMoves reports whether side can move any piece.
func HasMoves(b Board, side Color) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if pc := b[r][c]; pc.Color == side && len(ValidMoves(b, game.Position{Row: r, Col: c}, pc)) > 0 {
				return true
			}
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Checkers implements game.Game.
type Checkers struct{}

func (Checkers) Info() game.GameInfo {
	return game.GameInfo{Name: "checkers", Title: "Checkers", Category: "strategy", MinPlayers: 2, MaxPlayers: 2}
}

func (Checkers) NewMatch(game.MatchConfig) game.Match {
	return &Match{state: NewState()}
}

type State struct {
	Board    Board
	Turn     Color
	Status   game.Status
	Winner   Color
	Selected *game.Position
	Targets  []game.Position
	LastMove *Move
}

// NewState returns the opening layout with white to move.
func NewState() State {
	return State{Board: NewBoard(), Turn: White, Status: game.StatusOngoing}
}

// Step follows the same selection table as chess. After a move, a side
// left without any move loses.
func Step(s State, a game.Action) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if a.Type != game.ActionSelect {
		return s, fmt.Errorf("checkers: %w: %s", game.ErrUnknownAction, a.Type)
	}
	at := a.Pos()
	clicked := s.Board.At(at)

	switch {
	case s.Selected != nil && game.Contains(s.Targets, at):
		m := Move{From: *s.Selected, To: at, Piece: s.Board.At(*s.Selected)}
		s.Board = ApplyMove(s.Board, m)
		s.LastMove = &m
		s.Selected, s.Targets = nil, nil
		next := s.Turn.Opponent()
		if !HasMoves(s.Board, next) {
			s.Status = game.StatusWin
			s.Winner = s.Turn
			return s, nil
		}
		s.Turn = next
	case !clicked.Empty() && clicked.Color == s.Turn:
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

// Match is the checkers controller.
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
	return game.View{
		Game:          "checkers",
		Board:         s.Board,
		CurrentPlayer: s.Turn.String(),
		Status:        s.Status,
		Selected:      s.Selected,
		ValidMoves:    s.Targets,
		Winner:        s.Winner.String(),
	}
}

func (m *Match) Glyphs() [][]string {
	rows := make([][]string, Size)
	for r := range m.state.Board {
		rows[r] = make([]string, Size)
		for c, pc := range m.state.Board[r] {
			switch {
			case pc.Empty():
				rows[r][c] = "."
			case pc.Color == White && pc.King:
				rows[r][c] = "W"
			case pc.Color == White:
				rows[r][c] = "w"
			case pc.King:
				rows[r][c] = "B"
			default:
				rows[r][c] = "b"
			}
		}
	}
	return rows
}
