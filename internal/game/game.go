package game

import "math/rand/v2"

// GameInfo describes a game type for the lobby.
type GameInfo struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
}

// MatchConfig holds settings for creating a new match.
type MatchConfig struct {
	// Rand drives tile spawns, mine layout, card shuffles and dice.
	// A nil Rand gets a randomly seeded source.
	Rand *rand.Rand
}

// Rng returns the configured source or a freshly seeded one.
func (c MatchConfig) Rng() *rand.Rand {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Status is the phase of a match.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusWin       Status = "win"
	StatusLose      Status = "lose"
	StatusDraw      Status = "draw"
	StatusCheckmate Status = "checkmate"
)

// Terminal reports whether no further actions are accepted.
func (s Status) Terminal() bool {
	return s != StatusOngoing
}

// ActionType names the kind of input event a controller receives.
type ActionType string

const (
	ActionSelect  ActionType = "select"  // click on a board cell
	ActionDrop    ActionType = "drop"    // drop into a column
	ActionFlip    ActionType = "flip"    // turn over a card
	ActionConceal ActionType = "conceal" // turn a mismatched pair back down
	ActionFlag    ActionType = "flag"    // toggle a flag on a cell
	ActionSlide   ActionType = "slide"   // slide every tile one way
	ActionRoll    ActionType = "roll"    // roll the die
	ActionMove    ActionType = "move"    // advance a token by the rolled value
)

// Direction is a slide direction.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Action is one user event forwarded by the arena.
type Action struct {
	Type      ActionType `json:"type"`
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	Index     int        `json:"index"`
	Direction Direction  `json:"direction,omitempty"`
}

// Pos returns the cell an action targets.
func (a Action) Pos() Position {
	return Position{Row: a.Row, Col: a.Col}
}

func Select(row, col int) Action { return Action{Type: ActionSelect, Row: row, Col: col} }
func Drop(col int) Action        { return Action{Type: ActionDrop, Col: col} }
func Flip(index int) Action      { return Action{Type: ActionFlip, Index: index} }
func Conceal() Action            { return Action{Type: ActionConceal} }
func Flag(row, col int) Action   { return Action{Type: ActionFlag, Row: row, Col: col} }
func Slide(dir Direction) Action { return Action{Type: ActionSlide, Direction: dir} }
func Roll() Action               { return Action{Type: ActionRoll} }
func MoveToken(token int) Action { return Action{Type: ActionMove, Index: token} }

// View is the envelope a controller publishes after every transition.
// Game tags which board shape Board carries.
type View struct {
	Game          string     `json:"game"`
	Board         any        `json:"board"`
	CurrentPlayer string     `json:"currentPlayer"`
	Status        Status     `json:"status"`
	Selected      *Position  `json:"selectedPiece"`
	ValidMoves    []Position `json:"validMoves"`
	Score         int        `json:"score"`
	Winner        string     `json:"winner,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// Game describes a game type (chess, reversi, etc.)
type Game interface {
	Info() GameInfo
	NewMatch(config MatchConfig) Match
}

// Match is one in-progress game: the turn/state controller for that game.
// Apply is the only way its state changes.
type Match interface {
	Apply(action Action) error
	View() View
	IsOver() bool
	// Glyphs renders the board as rows of short strings for text frontends.
	Glyphs() [][]string
}
