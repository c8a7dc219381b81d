// Package ludo implements a simplified four-colour race. Red is the player;
// blue, green and yellow follow a fixed script: roll, then move the first
// token that can move.
package ludo

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"gamearena/internal/game"
)

const (
	Tokens = 4
	// Home is the position of a token not yet in play.
	Home = -1
	// Finish is the last square of the track.
	Finish = 56
	// Entry is the roll needed to bring a token out of home.
	Entry = 6
)

type Color int

const (
	Red Color = iota
	Blue
	Green
	Yellow
	numColors
)

var colorNames = [numColors]string{"red", "blue", "green", "yellow"}

func (c Color) String() string { return colorNames[c] }

func (c Color) next() Color { return (c + 1) % numColors }

// CanMove reports whether a token at pos may move by dice.
func CanMove(pos, dice int) bool {
	if pos == Home {
		return dice == Entry
	}
	return pos+dice <= Finish
}

// Advance returns the token position after moving by dice. The caller must
// have checked CanMove.
func Advance(pos, dice int) int {
	if pos == Home {
		return 0
	}
	return pos + dice
}

// Movable lists the tokens that may move by dice.
func Movable(tokens [Tokens]int, dice int) []int {
	var idx []int
	for i, p := range tokens {
		if CanMove(p, dice) {
			idx = append(idx, i)
		}
	}
	return idx
}

func finished(tokens [Tokens]int) bool {
	for _, p := range tokens {
		if p != Finish {
			return false
		}
	}
	return true
}

// Yard is the board published in views.
type Yard struct {
	Positions map[string][Tokens]int `json:"positions"`
	Dice      int                    `json:"dice"`
}

// Ludo implements game.Game.
type Ludo struct{}

func (Ludo) Info() game.GameInfo {
	return game.GameInfo{Name: "ludo", Title: "Ludo", Category: "dice", MinPlayers: 1, MaxPlayers: 1}
}

func (Ludo) NewMatch(cfg game.MatchConfig) game.Match {
	return &Match{state: NewState(), rng: cfg.Rng()}
}

type State struct {
	Positions [numColors][Tokens]int
	Turn      Color
	// Dice is the pending roll, 0 when the mover has not rolled.
	Dice    int
	Status  game.Status
	Winner  Color
	Message string
}

func NewState() State {
	s := State{Turn: Red, Status: game.StatusOngoing, Message: "Red's turn - Roll the dice!"}
	for c := range s.Positions {
		for i := range s.Positions[c] {
			s.Positions[c][i] = Home
		}
	}
	return s
}

// rolled records a roll for the mover, passing the turn when no token can use it.
func rolled(s State, dice int) State {
	if len(Movable(s.Positions[s.Turn], dice)) == 0 {
		s.Message = fmt.Sprintf("%s rolled %d and can't move", s.Turn, dice)
		s.Dice = 0
		s.Turn = s.Turn.next()
		return s
	}
	s.Dice = dice
	s.Message = fmt.Sprintf("%s rolled %d. Select a token to move.", s.Turn, dice)
	return s
}

// moved advances token i of the mover by the pending roll. A six keeps the turn.
func moved(s State, i int) State {
	c := s.Turn
	s.Positions[c][i] = Advance(s.Positions[c][i], s.Dice)
	if finished(s.Positions[c]) {
		s.Winner = c
		s.Status = game.StatusLose
		if c == Red {
			s.Status = game.StatusWin
		}
		s.Message = c.String() + " wins!"
		s.Dice = 0
		return s
	}
	if s.Dice != Entry {
		s.Turn = c.next()
	}
	s.Dice = 0
	s.Message = s.Turn.String() + "'s turn - Roll the dice!"
	return s
}

// advanceUntilHumanTurn plays every scripted colour until red is to move or
// the game is over.
func advanceUntilHumanTurn(s State, rng *rand.Rand) State {
	var log []string
	for s.Turn != Red && !s.Status.Terminal() {
		mover := s.Turn
		dice := rng.IntN(6) + 1
		s = rolled(s, dice)
		if s.Dice == 0 {
			log = append(log, s.Message)
			continue
		}
		i := Movable(s.Positions[mover], dice)[0]
		s = moved(s, i)
		log = append(log, fmt.Sprintf("%s rolled %d and moved token %d", mover, dice, i+1))
		if s.Status.Terminal() {
			log = append(log, s.Message)
		}
	}
	if len(log) > 0 {
		if !s.Status.Terminal() {
			log = append(log, s.Message)
		}
		s.Message = strings.Join(log, ". ")
	}
	return s
}

// Step handles red's roll and token choice, then runs the scripted colours.
// Rolling twice without moving, or moving without a roll, is refused.
func Step(s State, a game.Action, rng *rand.Rand) (State, error) {
	if s.Status.Terminal() {
		return s, game.ErrGameOver
	}
	if s.Turn != Red {
		return s, game.ErrNotYourTurn
	}
	switch a.Type {
	case game.ActionRoll:
		if s.Dice != 0 {
			return s, game.ErrIllegalMove
		}
		s = rolled(s, rng.IntN(6)+1)
	case game.ActionMove:
		if s.Dice == 0 || a.Index < 0 || a.Index >= Tokens || !CanMove(s.Positions[Red][a.Index], s.Dice) {
			return s, game.ErrIllegalMove
		}
		s = moved(s, a.Index)
	default:
		return s, fmt.Errorf("ludo: %w: %s", game.ErrUnknownAction, a.Type)
	}
	return advanceUntilHumanTurn(s, rng), nil
}

// Match is the ludo controller.
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

// View lists red's movable tokens in ValidMoves as (0, token).
func (m *Match) View() game.View {
	s := m.state
	yard := Yard{Positions: make(map[string][Tokens]int, numColors), Dice: s.Dice}
	for c := Red; c < numColors; c++ {
		yard.Positions[c.String()] = s.Positions[c]
	}
	progress := 0
	for _, p := range s.Positions[Red] {
		progress += max(p, 0)
	}
	v := game.View{
		Game:          "ludo",
		Board:         yard,
		CurrentPlayer: s.Turn.String(),
		Status:        s.Status,
		Score:         progress,
		Message:       s.Message,
	}
	if s.Status.Terminal() {
		v.Winner = s.Winner.String()
	} else if s.Dice != 0 {
		for _, i := range Movable(s.Positions[Red], s.Dice) {
			v.ValidMoves = append(v.ValidMoves, game.Position{Row: 0, Col: i})
		}
	}
	return v
}

// Glyphs has one row per colour: H for home, F for finished, else the square.
func (m *Match) Glyphs() [][]string {
	rows := make([][]string, numColors)
	for c := range m.state.Positions {
		rows[c] = make([]string, Tokens)
		for i, p := range m.state.Positions[c] {
			switch p {
			case Home:
				rows[c][i] = "H"
			case Finish:
				rows[c][i] = "F"
			default:
				rows[c][i] = strconv.Itoa(p)
			}
		}
	}
	return rows
}
