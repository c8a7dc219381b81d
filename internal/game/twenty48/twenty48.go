// Package twenty48 implements the 4×4 sliding tile game.
package twenty48

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"gamearena/internal/game"
)

const (
	Size   = 4
	Target = 2048
)

// Board holds tile values; 0 is empty.
type Board [Size][Size]int

// SlideLine compacts a line toward index 0 and merges each equal adjacent
// pair once, scanning from index 0. A merged tile does not merge again in the
// same slide: [2,2,2,2] becomes [4,4,0,0]. It returns the points scored.
func SlideLine(line [Size]int) ([Size]int, int) {
	var tiles []int
	for _, v := range line {
		if v != 0 {
			tiles = append(tiles, v)
		}
	}
	var out [Size]int
	points, n := 0, 0
	for i := 0; i < len(tiles); i++ {
		if i+1 < len(tiles) && tiles[i] == tiles[i+1] {
			out[n] = tiles[i] * 2
			points += out[n]
			i++
		} else {
			out[n] = tiles[i]
		}
		n++
	}
	return out, points
}

// cells returns the board coordinates of line i read in slide order, so that
// index 0 is the edge tiles move toward.
func cells(dir game.Direction, i int) [Size]game.Position {
	var ps [Size]game.Position
	for k := 0; k < Size; k++ {
		switch dir {
		case game.Left:
			ps[k] = game.Position{Row: i, Col: k}
		case game.Right:
			ps[k] = game.Position{Row: i, Col: Size - 1 - k}
		case game.Up:
			ps[k] = game.Position{Row: k, Col: i}
		case game.Down:
			ps[k] = game.Position{Row: Size - 1 - k, Col: i}
		}
	}
	return ps
}

func validDirection(d game.Direction) bool {
	switch d {
	case game.Up, game.Down, game.Left, game.Right:
		return true
	}
	return false
}

// Slide moves every tile toward dir. moved is false when no tile changed.
func Slide(b Board, dir game.Direction) (out Board, points int, moved bool) {
	out = b
	for i := 0; i < Size; i++ {
		ps := cells(dir, i)
		var line [Size]int
		for k, p := range ps {
			line[k] = b[p.Row][p.Col]
		}
		slid, pts := SlideLine(line)
		points += pts
		if slid != line {
			moved = true
		}
		for k, p := range ps {
			out[p.Row][p.Col] = slid[k]
		}
	}
	return out, points, moved
}

// Spawn places a 2 (90%) or a 4 (10%) on a random empty cell. A full board is
// returned unchanged.
func Spawn(b Board, rng *rand.Rand) Board {
	var empty []game.Position
	for r := range b {
		for c, v := range b[r] {
			if v == 0 {
				empty = append(empty, game.Position{Row: r, Col: c})
			}
		}
	}
	if len(empty) == 0 {
		return b
	}
	p := empty[rng.IntN(len(empty))]
	b[p.Row][p.Col] = 2
	if rng.Float64() >= 0.9 {
		b[p.Row][p.Col] = 4
	}
	return b
}

// CanMove reports whether any slide would change the board.
func CanMove(b Board) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == 0 {
				return true
			}
			if c+1 < Size && b[r][c] == b[r][c+1] {
				return true
			}
			if r+1 < Size && b[r][c] == b[r+1][c] {
				return true
			}
		}
	}
	return false
}

func reached(b Board) bool {
	for r := range b {
		for _, v := range b[r] {
			if v >= Target {
				return true
			}
		}
	}
	return false
}

// Twenty48 implements game.Game.
type Twenty48 struct{}

func (Twenty48) Info() game.GameInfo {
	return game.GameInfo{Name: "2048", Title: "2048", Category: "puzzle", MinPlayers: 1, MaxPlayers: 1}
}

func (Twenty48) NewMatch(cfg game.MatchConfig) game.Match {
	rng := cfg.Rng()
	return &Match{state: NewState(rng), rng: rng}
}

type State struct {
	Board  Board
	Score  int
	Status game.Status
}

// NewState starts with two spawned tiles.
func NewState(rng *rand.Rand) State {
	var b Board
	b = Spawn(Spawn(b, rng), rng)
	return State{Board: b, Status: game.StatusOngoing}
}

// Step slides the board and spawns one tile. A slide that changes nothing is
// rejected and spawns nothing.
func Step(s State, a game.Action, rng *rand.Rand) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if a.Type != game.ActionSlide {
		return s, fmt.Errorf("2048: %w: %s", game.ErrUnknownAction, a.Type)
	}
	if !validDirection(a.Direction) {
		return s, game.ErrIllegalMove
	}
	b, points, moved := Slide(s.Board, a.Direction)
	if !moved {
		return s, game.ErrIllegalMove
	}
	s.Board = Spawn(b, rng)
	s.Score += points
	switch {
	case reached(s.Board):
		s.Status = game.StatusWin
	case !CanMove(s.Board):
		s.Status = game.StatusLose
	}
	return s, nil
}

// Match is the 2048 controller.
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
		Game:          "2048",
		Board:         s.Board,
		CurrentPlayer: "player",
		Status:        s.Status,
		Score:         s.Score,
	}
	if s.Status == game.StatusWin {
		v.Winner = "player"
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	rows := make([][]string, Size)
	for r := range m.state.Board {
		rows[r] = make([]string, Size)
		for c, v := range m.state.Board[r] {
			if v == 0 {
				rows[r][c] = "."
			} else {
				rows[r][c] = strconv.Itoa(v)
			}
		}
	}
	return rows
}
