package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"

	"gamearena/internal/arena"
	"gamearena/internal/game"
	"gamearena/internal/storage"
)

func setupTest(t *testing.T) (*Manager, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	mgr := NewManager(arena.DefaultRegistry(), store, zap.NewNop())
	return mgr, store
}

func storedSession(t *testing.T, store *storage.Store, code string) (storage.SessionRow, bool) {
	t.Helper()
	rows, err := store.ListSessions("")
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	for _, row := range rows {
		if row.Code == code {
			return row, true
		}
	}
	return storage.SessionRow{}, false
}

// xWins is a tic-tac-toe sequence where X completes the top row.
var xWins = []game.Action{
	game.Select(0, 0), game.Select(1, 0),
	game.Select(0, 1), game.Select(1, 1),
	game.Select(0, 2),
}

func TestCreateSession(t *testing.T) {
	mgr, store := setupTest(t)

	sess, err := mgr.Create("tic-tac-toe", "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{6}$`).MatchString(sess.Code) {
		t.Fatalf("expected 6 hex char code, got %q", sess.Code)
	}
	info := sess.Info()
	if info.HostID != "alice" || info.GameType != "tic-tac-toe" || info.Status != StatusActive {
		t.Fatalf("unexpected info %+v", info)
	}
	row, ok := storedSession(t, store, sess.Code)
	if !ok {
		t.Fatal("expected a session row")
	}
	if row.GameType != "tic-tac-toe" {
		t.Fatalf("expected stored game tic-tac-toe, got %s", row.GameType)
	}
}

func TestUnknownGameType(t *testing.T) {
	mgr, _ := setupTest(t)
	_, err := mgr.Create("nonexistent", "alice")
	if !errors.Is(err, game.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestHostAssignment(t *testing.T) {
	mgr, _ := setupTest(t)

	sess, _ := mgr.Create("reversi", "")
	sess.Join("alice")
	if sess.Info().HostID != "alice" {
		t.Fatalf("expected alice as host, got %s", sess.Info().HostID)
	}
	sess.Join("bob")
	if sess.Info().HostID != "alice" {
		t.Fatalf("expected host to remain alice, got %s", sess.Info().HostID)
	}
}

func TestJoinReplacesConnection(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("reversi", "alice")
	first, err := sess.Join("alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	second, err := sess.Join("alice")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}

	select {
	case <-first.Done():
	default:
		t.Fatal("expected the replaced connection to be told to stop")
	}
	if sess.Leave(first) {
		t.Fatal("a replaced connection must not remove its successor")
	}
	if players := sess.Info().Players; len(players) != 1 || players[0] != "alice" {
		t.Fatalf("expected alice to stay connected, got %v", players)
	}
	if !sess.Leave(second) {
		t.Fatal("expected the current connection to leave")
	}
}

func TestSessionFull(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("reversi", "host")
	for i := 0; i < MaxViewers; i++ {
		if _, err := sess.Join(string(rune('a' + i))); err != nil {
			t.Fatalf("add viewer %d: %v", i, err)
		}
	}
	if _, err := sess.Join("late"); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	// the host always gets in
	if _, err := sess.Join("host"); err != nil {
		t.Fatalf("host join on a full session: %v", err)
	}
}

func TestLeaveFreesViewerSlots(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("reversi", "host")
	for i := 0; i < MaxViewers; i++ {
		p, err := sess.Join(string(rune('a' + i)))
		if err != nil {
			t.Fatalf("add viewer %d: %v", i, err)
		}
		sess.Leave(p)
	}
	if n := len(sess.Info().Players); n != 0 {
		t.Fatalf("expected no viewers after all left, got %d", n)
	}
	if _, err := sess.Join("late"); err != nil {
		t.Fatalf("expected a free slot, got %v", err)
	}
}

func TestOnlyHostActs(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("tic-tac-toe", "alice")
	sess.Join("bob")

	if _, err := mgr.Act(sess, "bob", game.Select(1, 1)); !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	if _, err := mgr.Reset(sess, "bob"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost on reset, got %v", err)
	}
	if _, err := mgr.Switch(sess, "bob", "2048"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost on switch, got %v", err)
	}
	v, err := mgr.Act(sess, "alice", game.Select(1, 1))
	if err != nil {
		t.Fatalf("host action: %v", err)
	}
	if v.CurrentPlayer != "player2" {
		t.Fatalf("expected player2 to move next, got %s", v.CurrentPlayer)
	}
}

func TestIllegalMoveLeavesState(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("tic-tac-toe", "alice")
	mgr.Act(sess, "alice", game.Select(0, 0))

	v, err := mgr.Act(sess, "alice", game.Select(0, 0))
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if v.CurrentPlayer != "player2" || len(v.ValidMoves) != 8 {
		t.Fatalf("state changed after illegal move: %+v", v)
	}
}

func TestFinishedGameRecordsResultOnce(t *testing.T) {
	mgr, store := setupTest(t)
	sess, _ := mgr.Create("tic-tac-toe", "alice")

	for _, a := range xWins {
		if _, err := mgr.Act(sess, "alice", a); err != nil {
			t.Fatalf("act %+v: %v", a, err)
		}
	}
	if sess.Info().Status != StatusFinished {
		t.Fatalf("expected finished, got %s", sess.Info().Status)
	}
	// further actions are rejected and must not record again
	if _, err := mgr.Act(sess, "alice", game.Select(2, 2)); !errors.Is(err, game.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}

	results, err := store.ListResults("tic-tac-toe", 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if r := results[0]; r.SessionCode != sess.Code || r.Status != "win" || r.Winner != "player1" {
		t.Fatalf("unexpected result %+v", r)
	}
	row, _ := storedSession(t, store, sess.Code)
	if row.Status != "finished" {
		t.Fatalf("expected stored status finished, got %s", row.Status)
	}
}

func TestResetAfterFinishRecordsAgain(t *testing.T) {
	mgr, store := setupTest(t)
	sess, _ := mgr.Create("tic-tac-toe", "alice")

	for round := 0; round < 2; round++ {
		for _, a := range xWins {
			mgr.Act(sess, "alice", a)
		}
		v, err := mgr.Reset(sess, "alice")
		if err != nil {
			t.Fatalf("reset: %v", err)
		}
		if len(v.ValidMoves) != 9 {
			t.Fatalf("expected 9 empty cells after reset, got %d", len(v.ValidMoves))
		}
	}
	results, _ := store.ListResults("tic-tac-toe", 10)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	row, _ := storedSession(t, store, sess.Code)
	if row.Status != "active" {
		t.Fatalf("expected stored status active after reset, got %s", row.Status)
	}
}

func TestSwitchGame(t *testing.T) {
	mgr, store := setupTest(t)
	sess, _ := mgr.Create("tic-tac-toe", "alice")

	v, err := mgr.Switch(sess, "alice", "reversi")
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if v.Game != "reversi" || len(v.ValidMoves) != 4 {
		t.Fatalf("expected reversi opening, got %+v", v)
	}
	if _, err := mgr.Switch(sess, "alice", "go"); !errors.Is(err, game.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
	if sess.GameType() != "reversi" {
		t.Fatalf("failed switch must keep reversi, got %s", sess.GameType())
	}
	row, _ := storedSession(t, store, sess.Code)
	if row.GameType != "reversi" {
		t.Fatalf("expected stored game reversi, got %s", row.GameType)
	}
}

func TestSummary(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("tic-tac-toe", "alice")
	got := sess.Summary()
	if got.Game != "tic-tac-toe" || got.CurrentPlayer != "player1" || got.Status != "ongoing" {
		t.Fatalf("unexpected summary %+v", got)
	}
}

// --- Viewer tests ---

func TestLeave(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("reversi", "alice")
	alice, _ := sess.Join("alice")
	sess.Join("bob")

	if !sess.Leave(alice) {
		t.Fatal("expected alice to leave")
	}
	if ids := sess.Info().Players; len(ids) != 1 || ids[0] != "bob" {
		t.Fatalf("expected [bob], got %v", ids)
	}
	select {
	case <-alice.Done():
	default:
		t.Fatal("expected done to be closed")
	}
	if sess.Leave(alice) {
		t.Fatal("leaving twice should report false")
	}
}

func TestBroadcastDelivery(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("reversi", "alice")
	alice, _ := sess.Join("alice")
	bob, _ := sess.Join("bob")

	msg := []byte(`{"type":"test"}`)
	sess.Broadcast(msg)

	for _, p := range []*Player{alice, bob} {
		select {
		case got := <-p.Send:
			if string(got) != string(msg) {
				t.Fatalf("%s got %s, expected %s", p.ID, got, msg)
			}
		default:
			t.Fatalf("expected %s to receive broadcast", p.ID)
		}
	}
}

func TestBroadcastBufferFull(t *testing.T) {
	mgr, _ := setupTest(t)
	sess, _ := mgr.Create("reversi", "alice")
	p, _ := sess.Join("alice")

	for i := 0; i < cap(p.Send); i++ {
		p.Send <- []byte("filler")
	}
	// Should not panic or block
	sess.Broadcast([]byte(`{"type":"dropped"}`))
}

// --- Manager tests ---

func TestManagerListAndRemove(t *testing.T) {
	mgr, store := setupTest(t)
	a, _ := mgr.Create("chess", "alice")
	b, _ := mgr.Create("2048", "bob")

	infos := mgr.List()
	if len(infos) != 2 || infos[0].Code > infos[1].Code {
		t.Fatalf("expected 2 sessions ordered by code, got %+v", infos)
	}

	mgr.Remove(a.Code)
	if _, ok := mgr.Get(a.Code); ok {
		t.Fatal("expected session to be removed")
	}
	if _, ok := storedSession(t, store, a.Code); ok {
		t.Fatal("expected session row to be deleted")
	}
	if _, ok := mgr.Get(b.Code); !ok {
		t.Fatal("other session should remain")
	}
}

func TestReconcileDropsStaleRows(t *testing.T) {
	mgr, store := setupTest(t)
	live, _ := mgr.Create("ludo", "alice")
	store.CreateSession("old001", "chess")
	store.CreateSession("old002", "memory")

	removed, err := mgr.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 stale rows removed, got %d", removed)
	}
	rows, _ := store.ListSessions("")
	if len(rows) != 1 || rows[0].Code != live.Code {
		t.Fatalf("expected only the live row, got %+v", rows)
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	mgr, _ := setupTest(t)
	idle, _ := mgr.Create("tic-tac-toe", "alice")
	busy, _ := mgr.Create("tic-tac-toe", "bob")

	time.Sleep(100 * time.Millisecond)
	mgr.Act(busy, "bob", game.Select(0, 0))

	if n := mgr.cleanup(time.Now(), 50*time.Millisecond); n != 1 {
		t.Fatalf("expected 1 session cleaned, got %d", n)
	}
	if _, ok := mgr.Get(idle.Code); ok {
		t.Fatal("idle session should be gone")
	}
	if _, ok := mgr.Get(busy.Code); !ok {
		t.Fatal("busy session should remain")
	}
}

func TestCleanupLoopStops(t *testing.T) {
	mgr, _ := setupTest(t)
	mgr.Create("tic-tac-toe", "alice")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mgr.CleanupLoop(ctx, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(mgr.List()) > 0 {
		select {
		case <-deadline:
			t.Fatal("cleanup loop never removed the session")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
