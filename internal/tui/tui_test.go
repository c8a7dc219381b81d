package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"gamearena/internal/arena"
	"gamearena/internal/coach"
	"gamearena/internal/game"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeyCommand(t *testing.T) {
	at := game.Position{Row: 2, Col: 1}
	tests := []struct {
		name string
		game string
		ev   *tcell.EventKey
		want Command
	}{
		{"arrow moves cursor", "chess", key(tcell.KeyUp), Command{Kind: CmdCursor, Delta: game.Position{Row: -1}}},
		{"arrow slides in 2048", "2048", key(tcell.KeyLeft), Command{Kind: CmdAction, Action: game.Slide(game.Left)}},
		{"enter selects", "reversi", key(tcell.KeyEnter), Command{Kind: CmdAction, Action: game.Select(2, 1)}},
		{"enter drops", "connect-four", key(tcell.KeyEnter), Command{Kind: CmdAction, Action: game.Drop(1)}},
		{"enter flips", "memory", key(tcell.KeyEnter), Command{Kind: CmdAction, Action: game.Flip(9)}},
		{"flag", "minesweeper", runeKey('f'), Command{Kind: CmdAction, Action: game.Flag(2, 1)}},
		{"roll", "ludo", runeKey(' '), Command{Kind: CmdAction, Action: game.Roll()}},
		{"token", "ludo", runeKey('3'), Command{Kind: CmdAction, Action: game.MoveToken(2)}},
		{"conceal", "memory", runeKey('h'), Command{Kind: CmdAction, Action: game.Conceal()}},
		{"reset", "chess", runeKey('r'), Command{Kind: CmdReset}},
		{"coach", "chess", runeKey('c'), Command{Kind: CmdCoach}},
		{"back", "chess", runeKey('q'), Command{Kind: CmdBack}},
		{"escape", "chess", key(tcell.KeyEscape), Command{Kind: CmdBack}},
		{"unmapped rune", "chess", runeKey('z'), Command{}},
		{"unmapped key", "chess", key(tcell.KeyF5), Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyCommand(tt.game, tt.ev, at); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoardCursorClamps(t *testing.T) {
	b := NewBoard(DefaultConfig.Colors)
	glyphs := [][]string{{".", "."}, {".", "."}, {".", "."}}
	b.Update(glyphs, game.View{})

	b.MoveCursor(game.Position{Row: -5})
	if b.Cursor() != (game.Position{}) {
		t.Fatalf("expected cursor at origin, got %+v", b.Cursor())
	}
	b.MoveCursor(game.Position{Row: 10, Col: 10})
	if b.Cursor() != (game.Position{Row: 2, Col: 1}) {
		t.Fatalf("expected cursor at bottom right, got %+v", b.Cursor())
	}
	// a smaller board pulls the cursor back in
	b.Update([][]string{{"."}}, game.View{})
	if b.Cursor() != (game.Position{}) {
		t.Fatalf("expected cursor clamped to 1x1 board, got %+v", b.Cursor())
	}
}

func useConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	useConfigHome(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != DefaultConfig {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := useConfigHome(t)
	if err := os.MkdirAll(filepath.Join(dir, "arena"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`{"default_game":"2048","colors":{"cursor":9}}`)
	if err := os.WriteFile(filepath.Join(dir, "arena", "tui.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultGame != "2048" || cfg.Colors.Cursor != 9 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Colors.Board != DefaultConfig.Colors.Board {
		t.Fatalf("missing keys should keep defaults, got %+v", cfg.Colors)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := useConfigHome(t)
	os.MkdirAll(filepath.Join(dir, "arena"), 0o755)
	os.WriteFile(filepath.Join(dir, "arena", "tui.json"), []byte(`{"colors":{"valid":300}}`), 0o644)

	_, err := LoadConfig()
	var invalid *InvalidConfig
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	useConfigHome(t)
	cfg := DefaultConfig
	cfg.DefaultGame = "ludo"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DefaultGame != "ludo" {
		t.Fatalf("expected saved default game, got %s", got.DefaultGame)
	}
}

func newTestApp(t *testing.T, defaultGame string) *App {
	t.Helper()
	useConfigHome(t)
	cfg := DefaultConfig
	cfg.DefaultGame = defaultGame
	app, err := New(arena.DefaultRegistry(), coach.New(nil, time.Second, zap.NewNop()), &cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func TestNewUnknownDefaultGame(t *testing.T) {
	cfg := DefaultConfig
	cfg.DefaultGame = "go"
	_, err := New(arena.DefaultRegistry(), coach.New(nil, time.Second, zap.NewNop()), &cfg, zap.NewNop())
	if !errors.Is(err, game.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestAppPlaysWithKeys(t *testing.T) {
	app := newTestApp(t, "tic-tac-toe")

	app.handleKey(key(tcell.KeyDown))
	app.handleKey(key(tcell.KeyRight))
	if app.board.Cursor() != (game.Position{Row: 1, Col: 1}) {
		t.Fatalf("cursor at %+v", app.board.Cursor())
	}
	app.handleKey(key(tcell.KeyEnter))
	if got := app.arena.Glyphs()[1][1]; got != "X" {
		t.Fatalf("expected X in the centre, got %q", got)
	}
	// occupied cell is ignored
	app.handleKey(key(tcell.KeyEnter))
	if v := app.arena.View(); v.CurrentPlayer != "player2" {
		t.Fatalf("illegal move should not pass the turn, got %s", v.CurrentPlayer)
	}

	app.handleKey(runeKey('r'))
	if len(app.arena.View().ValidMoves) != 9 {
		t.Fatal("expected empty board after reset")
	}
}

func TestAppSwitchFromList(t *testing.T) {
	app := newTestApp(t, "tic-tac-toe")

	app.handleKey(runeKey('q'))
	if name, _ := app.pages.GetFrontPage(); name != "games" {
		t.Fatalf("expected games page, got %s", name)
	}
	app.switchTo("2048")
	if app.arena.GameType() != "2048" {
		t.Fatalf("expected 2048, got %s", app.arena.GameType())
	}
	app.switchTo("go")
	if app.arena.GameType() != "2048" {
		t.Fatal("unknown game should keep the current one")
	}

	saved, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.DefaultGame != "2048" {
		t.Fatalf("expected the last game to be remembered, got %s", saved.DefaultGame)
	}
}

func TestAppPassesUnmappedKeys(t *testing.T) {
	app := newTestApp(t, "chess")
	ev := runeKey('z')
	if got := app.handleKey(ev); got != ev {
		t.Fatal("unmapped keys should pass through")
	}
}

func TestStatusText(t *testing.T) {
	got := statusText(game.View{Status: game.StatusWin, CurrentPlayer: "player", Score: 20, Winner: "player", Message: "Moves: 3"})
	want := "Status: win\nTurn: player\nScore: 20\nWinner: player\n\nMoves: 3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
