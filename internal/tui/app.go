// Package tui is a terminal frontend for the arena: a game list, the board of
// the active match, a status panel and the coach.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"gamearena/internal/arena"
	"gamearena/internal/coach"
	"gamearena/internal/game"
)

const helpText = "arrows move (slide in 2048)  enter play  f flag  space roll  1-4 token  h hide pair  r reset  c coach  q back"

// App holds the tview widgets and the arena they drive.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	registry *game.Registry
	arena    *arena.Arena
	board    *Board
	status   *tview.TextView
	advice   *tview.TextView
	coach    *coach.Coach
	cfg      *Config
	logger   *zap.Logger
}

// New builds the screens and starts cfg.DefaultGame.
func New(registry *game.Registry, c *coach.Coach, cfg *Config, logger *zap.Logger) (*App, error) {
	a, err := arena.New(registry, cfg.DefaultGame)
	if err != nil {
		return nil, err
	}
	t := &App{
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		registry: registry,
		arena:    a,
		board:    NewBoard(cfg.Colors),
		status:   tview.NewTextView(),
		advice:   tview.NewTextView().SetWordWrap(true),
		coach:    c,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "tui")),
	}
	t.pages.SetBorder(true).SetTitle(" Game Arena ")

	t.status.SetBorder(true).SetTitle(" Status ").SetTitleAlign(tview.AlignLeft)
	t.advice.SetBorder(true).SetTitle(" Coach ").SetTitleAlign(tview.AlignLeft)
	t.board.Box.SetBorder(true)
	t.board.Box.SetInputCapture(t.handleKey)

	help := tview.NewTextView().SetText(helpText)
	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.status, 0, 1, false).
		AddItem(t.advice, 0, 2, false)
	body := tview.NewFlex().
		AddItem(t.board.Box, 0, 2, true).
		AddItem(side, 0, 1, false)
	arenaPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(help, 1, 0, false)

	t.pages.AddPage("games", t.gameList(), true, false)
	t.pages.AddPage("arena", arenaPage, true, true)
	t.app.SetRoot(t.pages, true)
	t.refresh()
	return t, nil
}

// Run blocks until the user quits.
func (t *App) Run() error {
	return t.app.Run()
}

func (t *App) gameList() *tview.List {
	list := tview.NewList()
	list.SetTitle(" Games ").SetBorder(true)
	for _, info := range t.registry.List() {
		name := info.Name
		list.AddItem(info.Title, info.Category, 0, func() {
			t.switchTo(name)
			t.pages.SwitchToPage("arena")
			t.app.SetFocus(t.board.Box)
		})
	}
	list.AddItem("Quit", "", 'q', t.app.Stop)
	return list
}

func (t *App) switchTo(name string) {
	if _, err := t.arena.Switch(name); err != nil {
		t.logger.Warn("switch game", zap.String("game", name), zap.Error(err))
		return
	}
	t.advice.SetText("")
	t.refresh()

	// remember the last game for the next start
	t.cfg.DefaultGame = name
	if err := t.cfg.Save(); err != nil {
		t.logger.Warn("save config", zap.Error(err))
	}
}

func (t *App) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	cmd := KeyCommand(t.arena.GameType(), ev, t.board.Cursor())
	switch cmd.Kind {
	case CmdNone:
		return ev
	case CmdCursor:
		t.board.MoveCursor(cmd.Delta)
	case CmdAction:
		t.apply(cmd.Action)
	case CmdReset:
		t.arena.Reset()
		t.refresh()
	case CmdCoach:
		t.askCoach()
	case CmdBack:
		t.pages.SwitchToPage("games")
	}
	return nil
}

func (t *App) apply(act game.Action) {
	_, err := t.arena.Apply(act)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrIllegalMove):
		// ignored like a click on a dead cell
	default:
		t.logger.Debug("action rejected", zap.String("game", t.arena.GameType()), zap.Error(err))
	}
	t.refresh()
}

func (t *App) refresh() {
	v := t.arena.View()
	t.board.Update(t.arena.Glyphs(), v)
	t.board.Box.SetTitle(fmt.Sprintf(" %s ", t.arena.Info().Title))
	t.status.SetText(statusText(v))
}

func statusText(v game.View) string {
	s := fmt.Sprintf("Status: %s\nTurn: %s\nScore: %d", v.Status, v.CurrentPlayer, v.Score)
	if v.Winner != "" {
		s += "\nWinner: " + v.Winner
	}
	if v.Message != "" {
		s += "\n\n" + v.Message
	}
	return s
}

// askCoach runs the advisory call off the UI goroutine.
func (t *App) askCoach() {
	sum := t.arena.Summary()
	t.advice.SetText("Thinking...")
	req := coach.Request{
		Message:  "What should I do next?",
		GameType: sum.Game,
		State: coach.GameState{
			CurrentPlayer: sum.CurrentPlayer,
			Status:        sum.Status,
			Score:         sum.Score,
		},
	}
	go func() {
		resp := t.coach.Advise(context.Background(), req)
		t.app.QueueUpdateDraw(func() {
			t.advice.SetText(resp.Response)
		})
	}()
}
