package arena

import (
	"gamearena/internal/game"
	"gamearena/internal/game/checkers"
	"gamearena/internal/game/chess"
	"gamearena/internal/game/connectfour"
	"gamearena/internal/game/ludo"
	"gamearena/internal/game/memory"
	"gamearena/internal/game/minesweeper"
	"gamearena/internal/game/reversi"
	"gamearena/internal/game/snakeladders"
	"gamearena/internal/game/tictactoe"
	"gamearena/internal/game/twenty48"
)

// DefaultRegistry returns a registry holding all ten games.
func DefaultRegistry() *game.Registry {
	r := game.NewRegistry()
	r.Register(chess.Chess{})
	r.Register(checkers.Checkers{})
	r.Register(tictactoe.TicTacToe{})
	r.Register(connectfour.ConnectFour{})
	r.Register(memory.Memory{})
	r.Register(snakeladders.SnakeLadders{})
	r.Register(ludo.Ludo{})
	r.Register(reversi.Reversi{})
	r.Register(minesweeper.Minesweeper{})
	r.Register(twenty48.Twenty48{})
	return r
}
