package tictactoe

import (
	"fmt"

	"gamearena/internal/game"
)

const Size = 3

// Mark is the content of a cell: 0=empty, 1=X (player1), 2=O (player2).
type Mark int8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) Other() Mark {
	if m == X {
		return O
	}
	return X
}

// Player returns the arena name of the mark's owner.
func (m Mark) Player() string {
	switch m {
	case X:
		return "player1"
	case O:
		return "player2"
	}
	return ""
}

func (m Mark) glyph() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

type Board [Size][Size]Mark

// TicTacToe implements game.Game.
type TicTacToe struct{}

func (t TicTacToe) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "tic-tac-toe",
		Title:      "Tic-Tac-Toe",
		Category:   "board",
		MinPlayers: 2,
		MaxPlayers: 2,
	}
}

func (t TicTacToe) NewMatch(config game.MatchConfig) game.Match {
	return &Match{state: NewState()}
}

type State struct {
	Board  Board
	Turn   Mark
	Status game.Status
	Winner Mark
}

func NewState() State {
	return State{Turn: X, Status: game.StatusOngoing}
}

// EmptyCells lists every cell that can still take a mark.
func EmptyCells(b Board) []game.Position {
	var cells []game.Position
	for r := range b {
		for c, v := range b[r] {
			if v == Empty {
				cells = append(cells, game.Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Step places the mover's mark on a clicked empty cell.
func Step(s State, a game.Action) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if a.Type != game.ActionSelect {
		return s, fmt.Errorf("tic-tac-toe: %w: %s", game.ErrUnknownAction, a.Type)
	}
	at := a.Pos()
	if !at.In(Size, Size) || s.Board[at.Row][at.Col] != Empty {
		return s, game.ErrIllegalMove
	}

	mark := s.Turn
	s.Board[at.Row][at.Col] = mark
	same := func(p game.Position) bool { return s.Board[p.Row][p.Col] == mark }
	switch {
	case game.CompletesLine(Size, Size, at, Size, same):
		s.Status = game.StatusWin
		s.Winner = mark
	case len(EmptyCells(s.Board)) == 0:
		s.Status = game.StatusDraw
	default:
		s.Turn = mark.Other()
	}
	return s, nil
}

// Match implements game.Match for tic-tac-toe.
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

func (m *Match) IsOver() bool {
	return m.state.Status.Terminal()
}

func (m *Match) View() game.View {
	s := m.state
	v := game.View{
		Game:          "tic-tac-toe",
		Board:         s.Board,
		CurrentPlayer: s.Turn.Player(),
		Status:        s.Status,
		Winner:        s.Winner.Player(),
	}
	if !s.Status.Terminal() {
		v.ValidMoves = EmptyCells(s.Board)
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	rows := make([][]string, Size)
	for r := range m.state.Board {
		rows[r] = make([]string, Size)
		for c, v := range m.state.Board[r] {
			rows[r][c] = v.glyph()
		}
	}
	return rows
}
