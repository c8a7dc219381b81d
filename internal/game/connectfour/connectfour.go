// Package connectfour implements the 6×7 gravity drop game.
package connectfour

import (
	"fmt"

	"gamearena/internal/game"
)

const (
	Rows = 6
	Cols = 7
	// Connect is the run length that wins.
	Connect = 4
)

// Disc is 0 for empty, 1 for player1, 2 for player2.
type Disc int8

const (
	Empty Disc = iota
	Player1
	Player2
)

func (d Disc) Other() Disc {
	if d == Player1 {
		return Player2
	}
	return Player1
}

func (d Disc) String() string {
	switch d {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	}
	return ""
}

type Board [Rows][Cols]Disc

// LandingRow returns the lowest empty row of col, or -1 when the column is
// full or col is off the board.
func LandingRow(b Board, col int) int {
	if col < 0 || col >= Cols {
		return -1
	}
	for r := Rows - 1; r >= 0; r-- {
		if b[r][col] == Empty {
			return r
		}
	}
	return -1
}

// OpenColumns returns the landing cell of every column that accepts a drop.
func OpenColumns(b Board) []game.Position {
	var cells []game.Position
	for c := 0; c < Cols; c++ {
		if r := LandingRow(b, c); r >= 0 {
			cells = append(cells, game.Position{Row: r, Col: c})
		}
	}
	return cells
}

func topRowFull(b Board) bool {
	for _, d := range b[0] {
		if d == Empty {
			return false
		}
	}
	return true
}

// ConnectFour implements game.Game.
type ConnectFour struct{}

func (ConnectFour) Info() game.GameInfo {
	return game.GameInfo{Name: "connect-four", Title: "Connect Four", Category: "board", MinPlayers: 2, MaxPlayers: 2}
}

func (ConnectFour) NewMatch(game.MatchConfig) game.Match {
	return &Match{state: NewState()}
}

type State struct {
	Board  Board
	Turn   Disc
	Status game.Status
	Winner Disc
	// Last is the most recently filled cell, nil before the first drop.
	Last *game.Position
}

func NewState() State {
	return State{Turn: Player1, Status: game.StatusOngoing}
}

// Step drops the mover's disc into a column. A click on a cell is treated
// as a drop into that cell's column.
func Step(s State, a game.Action) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	switch a.Type {
	case game.ActionDrop, game.ActionSelect:
	default:
		return s, fmt.Errorf("connect-four: %w: %s", game.ErrUnknownAction, a.Type)
	}
	row := LandingRow(s.Board, a.Col)
	if row < 0 {
		return s, game.ErrIllegalMove
	}

	disc := s.Turn
	at := game.Position{Row: row, Col: a.Col}
	s.Board[row][a.Col] = disc
	s.Last = &at
	same := func(p game.Position) bool { return s.Board[p.Row][p.Col] == disc }
	switch {
	case game.CompletesLine(Rows, Cols, at, Connect, same):
		s.Status = game.StatusWin
		s.Winner = disc
	case topRowFull(s.Board):
		s.Status = game.StatusDraw
	default:
		s.Turn = disc.Other()
	}
	return s, nil
}

// Match is the connect-four controller.
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
	v := game.View{
		Game:          "connect-four",
		Board:         s.Board,
		CurrentPlayer: s.Turn.String(),
		Status:        s.Status,
		Winner:        s.Winner.String(),
	}
	if !s.Status.Terminal() {
		v.ValidMoves = OpenColumns(s.Board)
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	rows := make([][]string, Rows)
	for r := range m.state.Board {
		rows[r] = make([]string, Cols)
		for c, d := range m.state.Board[r] {
			switch d {
			case Player1:
				rows[r][c] = "R"
			case Player2:
				rows[r][c] = "Y"
			default:
				rows[r][c] = "."
			}
		}
	}
	return rows
}
