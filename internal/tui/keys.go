package tui

import (
	"github.com/gdamore/tcell/v2"

	"gamearena/internal/game"
	"gamearena/internal/game/memory"
)

// CommandKind says what a key press asks the arena screen to do.
type CommandKind int

const (
	CmdNone   CommandKind = iota
	CmdAction             // forward Action to the match
	CmdCursor             // move the cursor by Delta
	CmdReset
	CmdCoach
	CmdBack
)

type Command struct {
	Kind   CommandKind
	Action game.Action
	Delta  game.Position
}

var arrowDirs = map[tcell.Key]game.Direction{
	tcell.KeyUp:    game.Up,
	tcell.KeyDown:  game.Down,
	tcell.KeyLeft:  game.Left,
	tcell.KeyRight: game.Right,
}

var arrowDeltas = map[tcell.Key]game.Position{
	tcell.KeyUp:    {Row: -1},
	tcell.KeyDown:  {Row: 1},
	tcell.KeyLeft:  {Col: -1},
	tcell.KeyRight: {Col: 1},
}

// KeyCommand maps a key press on the board to a command for gameType, with
// the cursor at cursor.
func KeyCommand(gameType string, ev *tcell.EventKey, cursor game.Position) Command {
	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		if gameType == "2048" {
			return Command{Kind: CmdAction, Action: game.Slide(arrowDirs[ev.Key()])}
		}
		return Command{Kind: CmdCursor, Delta: arrowDeltas[ev.Key()]}
	case tcell.KeyEnter:
		return Command{Kind: CmdAction, Action: enterAction(gameType, cursor)}
	case tcell.KeyEscape:
		return Command{Kind: CmdBack}
	case tcell.KeyRune:
	default:
		return Command{}
	}

	switch r := ev.Rune(); r {
	case 'f':
		return Command{Kind: CmdAction, Action: game.Flag(cursor.Row, cursor.Col)}
	case ' ':
		return Command{Kind: CmdAction, Action: game.Roll()}
	case 'h':
		return Command{Kind: CmdAction, Action: game.Conceal()}
	case '1', '2', '3', '4':
		return Command{Kind: CmdAction, Action: game.MoveToken(int(r - '1'))}
	case 'r':
		return Command{Kind: CmdReset}
	case 'c':
		return Command{Kind: CmdCoach}
	case 'q':
		return Command{Kind: CmdBack}
	}
	return Command{}
}

func enterAction(gameType string, cursor game.Position) game.Action {
	switch gameType {
	case "connect-four":
		return game.Drop(cursor.Col)
	case "memory":
		return game.Flip(cursor.Row*memory.Size + cursor.Col)
	}
	return game.Select(cursor.Row, cursor.Col)
}
