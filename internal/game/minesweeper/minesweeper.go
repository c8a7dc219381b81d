// Package minesweeper implements a 10×10 field with 15 mines. Mines are laid
// on the first reveal so that the first cell is never a mine.
package minesweeper

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"gamearena/internal/game"
)

const (
	Size      = 10
	MineCount = 15
)

type Cell struct {
	Mine     bool `json:"isMine"`
	Revealed bool `json:"isRevealed"`
	Flagged  bool `json:"isFlagged"`
	Adjacent int  `json:"adjacentMines"`
}

type Grid [Size][Size]Cell

func (g *Grid) at(p game.Position) *Cell { return &g[p.Row][p.Col] }

// Layout places MineCount mines uniformly at random, never on exclude, and
// fills in the adjacency counts. Existing flags are kept.
func Layout(g Grid, exclude game.Position, rng *rand.Rand) Grid {
	for placed := 0; placed < MineCount; {
		p := game.Position{Row: rng.IntN(Size), Col: rng.IntN(Size)}
		if p == exclude || g.at(p).Mine {
			continue
		}
		g.at(p).Mine = true
		placed++
	}
	return countAdjacent(g)
}

func countAdjacent(g Grid) Grid {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := game.Position{Row: r, Col: c}
			n := 0
			for _, d := range game.Compass {
				if q := p.Add(d); q.In(Size, Size) && g.at(q).Mine {
					n++
				}
			}
			g.at(p).Adjacent = n
		}
	}
	return g
}

// Reveal uncovers p and, when p has no adjacent mines, every cell reachable
// through other zero cells. Flagged cells are never uncovered. The walk uses
// an explicit worklist; revealed cells are not pushed twice.
func Reveal(g Grid, p game.Position) Grid {
	work := []game.Position{p}
	for len(work) > 0 {
		q := work[len(work)-1]
		work = work[:len(work)-1]
		c := g.at(q)
		if c.Revealed || c.Flagged {
			continue
		}
		c.Revealed = true
		if c.Mine || c.Adjacent > 0 {
			continue
		}
		for _, d := range game.Compass {
			if n := q.Add(d); n.In(Size, Size) && !g.at(n).Revealed {
				work = append(work, n)
			}
		}
	}
	return g
}

// RevealedCount counts uncovered cells.
func RevealedCount(g Grid) int {
	n := 0
	for r := range g {
		for _, c := range g[r] {
			if c.Revealed {
				n++
			}
		}
	}
	return n
}

func FlagCount(g Grid) int {
	n := 0
	for r := range g {
		for _, c := range g[r] {
			if c.Flagged {
				n++
			}
		}
	}
	return n
}

func mineTotal(g Grid) int {
	n := 0
	for r := range g {
		for _, c := range g[r] {
			if c.Mine {
				n++
			}
		}
	}
	return n
}

// Minesweeper implements game.Game.
type Minesweeper struct{}

func (Minesweeper) Info() game.GameInfo {
	return game.GameInfo{Name: "minesweeper", Title: "Minesweeper", Category: "puzzle", MinPlayers: 1, MaxPlayers: 1}
}

func (Minesweeper) NewMatch(cfg game.MatchConfig) game.Match {
	return &Match{state: NewState(), rng: cfg.Rng()}
}

type State struct {
	Grid Grid
	// Laid is false until the first reveal places the mines.
	Laid   bool
	Status game.Status
	Score  int
}

func NewState() State {
	return State{Status: game.StatusOngoing}
}

// Step reveals or flags a cell. rng is only consulted for the first reveal.
func Step(s State, a game.Action, rng *rand.Rand) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	at := a.Pos()
	if !at.In(Size, Size) {
		return s, game.ErrIllegalMove
	}
	cell := s.Grid.at(at)

	switch a.Type {
	case game.ActionFlag:
		if cell.Revealed {
			return s, game.ErrIllegalMove
		}
		cell.Flagged = !cell.Flagged
		return s, nil
	case game.ActionSelect:
	default:
		return s, fmt.Errorf("minesweeper: %w: %s", game.ErrUnknownAction, a.Type)
	}

	if cell.Revealed || cell.Flagged {
		return s, game.ErrIllegalMove
	}
	if !s.Laid {
		s.Grid = Layout(s.Grid, at, rng)
		s.Laid = true
	}
	if s.Grid.at(at).Mine {
		for r := range s.Grid {
			for c := range s.Grid[r] {
				if s.Grid[r][c].Mine {
					s.Grid[r][c].Revealed = true
				}
			}
		}
		s.Status = game.StatusLose
		return s, nil
	}

	s.Grid = Reveal(s.Grid, at)
	revealed := RevealedCount(s.Grid)
	s.Score = revealed * 10
	if revealed == Size*Size-mineTotal(s.Grid) {
		s.Status = game.StatusWin
	}
	return s, nil
}

// Match is the minesweeper controller.
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

// public hides mines and counts under covered cells.
func (m *Match) public() Grid {
	g := m.state.Grid
	for r := range g {
		for c := range g[r] {
			if !g[r][c].Revealed {
				g[r][c].Mine = false
				g[r][c].Adjacent = 0
			}
		}
	}
	return g
}

func (m *Match) View() game.View {
	s := m.state
	v := game.View{
		Game:          "minesweeper",
		Board:         m.public(),
		CurrentPlayer: "player",
		Status:        s.Status,
		Score:         s.Score,
		Message:       fmt.Sprintf("Mines: %d, Flags: %d", MineCount, FlagCount(s.Grid)),
	}
	if s.Status == game.StatusWin {
		v.Winner = "player"
	}
	return v
}

func (m *Match) Glyphs() [][]string {
	g := m.public()
	rows := make([][]string, Size)
	for r := range g {
		rows[r] = make([]string, Size)
		for c, cell := range g[r] {
			switch {
			case cell.Flagged && !cell.Revealed:
				rows[r][c] = "F"
			case !cell.Revealed:
				rows[r][c] = "#"
			case cell.Mine:
				rows[r][c] = "*"
			case cell.Adjacent == 0:
				rows[r][c] = "."
			default:
				rows[r][c] = strconv.Itoa(cell.Adjacent)
			}
		}
	}
	return rows
}
