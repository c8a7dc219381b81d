// arena-tui plays the arena games in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"gamearena/internal/arena"
	"gamearena/internal/coach"
	"gamearena/internal/config"
	"gamearena/internal/logging"
	"gamearena/internal/tui"
)

var flagGame = flag.String("game", "", "Game to start with (overrides default_game)")

func main() {
	flag.Parse()

	cfg := config.Load()
	tuiCfg, err := tui.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *flagGame != "" {
		tuiCfg.DefaultGame = *flagGame
	}

	logger := zap.NewNop()
	if path, err := xdg.StateFile("arena/tui.log"); err == nil {
		if l, err := logging.NewFile(cfg.LogLevel, path); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	var completer coach.Completer
	if cfg.OpenAIKey != "" {
		completer = coach.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.CoachModel)
	}

	app, err := tui.New(arena.DefaultRegistry(), coach.New(completer, cfg.CoachTimeout, logger), tuiCfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := app.Run(); err != nil {
		logger.Error("tui exited", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
