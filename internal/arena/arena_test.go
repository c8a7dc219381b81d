package arena

import (
	"errors"
	"math/rand/v2"
	"testing"

	"gamearena/internal/game"
)

func newTestArena(t *testing.T, gameType string) *Arena {
	t.Helper()
	a, err := New(DefaultRegistry(), gameType, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("new arena: %v", err)
	}
	return a
}

// whiteMoveCount selects every white piece in turn and sums its destinations.
func whiteMoveCount(t *testing.T, a *Arena) int {
	t.Helper()
	total := 0
	for r := 6; r < 8; r++ {
		for c := 0; c < 8; c++ {
			v, err := a.Apply(game.Select(r, c))
			if err != nil {
				t.Fatalf("select (%d,%d): %v", r, c, err)
			}
			total += len(v.ValidMoves)
		}
	}
	return total
}

func TestDefaultRegistryHasTenGames(t *testing.T) {
	infos := DefaultRegistry().List()
	if len(infos) != 10 {
		t.Fatalf("expected 10 games, got %d", len(infos))
	}
	want := map[string]bool{
		"chess": true, "checkers": true, "tic-tac-toe": true, "connect-four": true, "memory": true,
		"snake-ladders": true, "ludo": true, "reversi": true, "minesweeper": true, "2048": true,
	}
	for _, info := range infos {
		if !want[info.Name] {
			t.Fatalf("unexpected game %q", info.Name)
		}
	}
}

func TestResetRoundTrip(t *testing.T) {
	t.Run("chess", func(t *testing.T) {
		a := newTestArena(t, "chess")
		if n := whiteMoveCount(t, a); n != 20 {
			t.Fatalf("expected 20 opening moves, got %d", n)
		}
		a.Apply(game.Select(6, 4))
		if _, err := a.Apply(game.Select(4, 4)); err != nil {
			t.Fatalf("e4: %v", err)
		}
		if a.View().CurrentPlayer != "black" {
			t.Fatal("expected black to move after e4")
		}
		a.Reset()
		if a.View().CurrentPlayer != "white" {
			t.Fatal("reset should hand the move back to white")
		}
		if n := whiteMoveCount(t, a); n != 20 {
			t.Fatalf("expected 20 moves after reset, got %d", n)
		}
	})
	t.Run("reversi", func(t *testing.T) {
		a := newTestArena(t, "reversi")
		a.Apply(game.Select(2, 3))
		if v := a.Reset(); len(v.ValidMoves) != 4 {
			t.Fatalf("expected 4 opening cells, got %d", len(v.ValidMoves))
		}
	})
	t.Run("tic-tac-toe", func(t *testing.T) {
		a := newTestArena(t, "tic-tac-toe")
		a.Apply(game.Select(1, 1))
		if v := a.Reset(); len(v.ValidMoves) != 9 {
			t.Fatalf("expected 9 cells, got %d", len(v.ValidMoves))
		}
	})
}

func TestSwitch(t *testing.T) {
	a := newTestArena(t, "chess")
	v, err := a.Switch("connect-four")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if v.Game != "connect-four" || a.GameType() != "connect-four" {
		t.Fatalf("expected connect-four, got %q", v.Game)
	}
	if a.Info().Title != "Connect Four" {
		t.Fatalf("unexpected info %+v", a.Info())
	}

	_, err = a.Switch("go")
	if !errors.Is(err, game.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
	if a.GameType() != "connect-four" {
		t.Fatal("failed switch must keep the active game")
	}
}

func TestNewUnknownGame(t *testing.T) {
	if _, err := New(DefaultRegistry(), "poker"); !errors.Is(err, game.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestApplyReturnsCurrentViewOnError(t *testing.T) {
	a := newTestArena(t, "tic-tac-toe")
	a.Apply(game.Select(0, 0))
	v, err := a.Apply(game.Select(0, 0))
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if v.CurrentPlayer != "player2" {
		t.Fatalf("view should still show player2 to move, got %q", v.CurrentPlayer)
	}
}

func TestSummary(t *testing.T) {
	a := newTestArena(t, "2048")
	a.Apply(game.Slide(game.Left))
	a.Apply(game.Slide(game.Up))
	s := a.Summary()
	if s.Game != "2048" || s.CurrentPlayer != "player" || s.Status != "ongoing" {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Score != a.View().Score {
		t.Fatal("summary score should match the view")
	}
}

func TestEveryGameStartsOngoing(t *testing.T) {
	for _, info := range DefaultRegistry().List() {
		a := newTestArena(t, info.Name)
		if a.IsOver() {
			t.Fatalf("%s: new match already over", info.Name)
		}
		if v := a.View(); v.Game != info.Name || v.Status != game.StatusOngoing {
			t.Fatalf("%s: unexpected view %+v", info.Name, v)
		}
		if len(a.Glyphs()) == 0 {
			t.Fatalf("%s: no glyphs", info.Name)
		}
	}
}
