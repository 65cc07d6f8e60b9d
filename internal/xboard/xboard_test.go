package xboard

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/hailam/sigsegv/internal/bot"
	"github.com/hailam/sigsegv/internal/engine"
	"github.com/hailam/sigsegv/internal/storage"
)

// run feeds the command lines to a fresh handler and returns its output
// lines.
func run(t *testing.T, cmds ...string) (*XBoard, []string) {
	t.Helper()
	var out bytes.Buffer
	x := New(engine.Options{Depth: 2}, strings.NewReader(strings.Join(cmds, "\n")+"\n"), &out, nil)
	if err := x.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return x, lines(out.String())
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestHandshake(t *testing.T) {
	_, out := run(t, "xboard", "protover 2", "accepted usermove", "ping 7")

	want := []string{
		`feature ping=1 setboard=1 usermove=1 san=0 sigterm=0 sigint=0 variants="crazyhouse" myname="sigsegv" done=1`,
		"pong 7",
	}
	if strings.Join(out, "\n") != strings.Join(want, "\n") {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestQuitStopsReading(t *testing.T) {
	_, out := run(t, "quit", "ping 1")
	if len(out) != 0 {
		t.Errorf("commands after quit were handled: %q", out)
	}
}

func TestEngineRepliesAsBlack(t *testing.T) {
	x, out := run(t, "new", "variant crazyhouse", "usermove e2e4")

	if len(out) != 1 || !strings.HasPrefix(out[0], "move ") {
		t.Fatalf("output = %q, want one move line", out)
	}
	m, err := board.ParseMove(strings.TrimPrefix(out[0], "move "))
	if err != nil {
		t.Fatalf("engine sent unparsable move: %v", err)
	}

	pos := board.NewPosition()
	pos.Apply(board.NewMove(board.E2, board.E4), board.White)
	if !pos.GenerateAll(board.Black).Contains(m) {
		t.Errorf("engine reply %s is not legal after e2e4", m)
	}
	if got := len(x.Bot().History()); got != 2 {
		t.Errorf("history has %d moves, want 2", got)
	}
}

func TestGoPlaysSideToMove(t *testing.T) {
	x, out := run(t, "new", "force", "e2e4", "go")

	if len(out) != 1 || !strings.HasPrefix(out[0], "move ") {
		t.Fatalf("output = %q, want one move line", out)
	}
	if x.Bot().PlaySide() != board.Black || x.Bot().Mode() != bot.Normal {
		t.Errorf("after go: side %s, mode %s", x.Bot().PlaySide(), x.Bot().Mode())
	}
}

func TestForceModeRecordsOnly(t *testing.T) {
	x, out := run(t, "force", "usermove e2e4", "e7e5", "g1f3")

	if len(out) != 0 {
		t.Errorf("force mode replied %q", out)
	}
	if got := len(x.Bot().History()); got != 3 {
		t.Errorf("history has %d moves, want 3", got)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{"usermove e3e4", "Illegal move: e3e4"},
		{"usermove e2", "Illegal move: e2"},
		{"P@e4", "Illegal move: P@e4"},
		{"frobnicate", "Error (unknown command): frobnicate"},
		{"setboard not a fen", "tellusererror Illegal position"},
		{"setboard 8/8/8/8/8/8/8/8[] w - - 0 1", "tellusererror Illegal position"},
		{"variant suicide", "Error (unsupported variant): suicide"},
	}

	for _, tc := range tests {
		t.Run(tc.cmd, func(t *testing.T) {
			x, out := run(t, "force", tc.cmd)
			if len(out) != 1 || out[0] != tc.want {
				t.Errorf("output = %q, want %q", out, tc.want)
			}
			if x.Bot().Position().FEN() != board.StartFEN {
				t.Error("failed command changed the position")
			}
		})
	}
}

func TestIgnoredCommands(t *testing.T) {
	_, out := run(t, "level 40 5 0", "st 10", "time 30000", "otim 30000", "easy", "hard", "random", "computer", "name someone", "rating 2000 1800", "?")
	if len(out) != 0 {
		t.Errorf("ignored commands replied %q", out)
	}
}

func TestStalemateSignal(t *testing.T) {
	_, out := run(t, "setboard k6Q/8/1K6/8/8/8/8/8[] b - - 0 1", "go")

	if len(out) != 1 || out[0] != bot.StalemateSignal {
		t.Errorf("output = %q, want %q", out, bot.StalemateSignal)
	}
}

func TestDrawSignalFollowsMove(t *testing.T) {
	_, out := run(t, "setboard 4k3/8/8/8/8/8/8/R3K3[] w Q - 49 1", "go")

	want := []string{"move e1c1", bot.DrawSignal}
	if strings.Join(out, "\n") != strings.Join(want, "\n") {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPost(t *testing.T) {
	_, out := run(t, "post", "setboard 4k3/8/8/3q4/8/8/8/3RK3[n] b - - 0 1", "go")

	if len(out) != 2 {
		t.Fatalf("output = %q, want thinking and move", out)
	}
	fields := strings.Fields(out[0])
	if len(fields) != 5 || fields[0] != "2" {
		t.Errorf("thinking line = %q", out[0])
	}
	if "move "+fields[4] != out[1] {
		t.Errorf("thinking move %s does not match %q", fields[4], out[1])
	}
}

func TestOnEngineMove(t *testing.T) {
	var out bytes.Buffer
	x := New(engine.Options{Depth: 2}, strings.NewReader("force\ne2e4\ngo\n"), &out, nil)

	var got []board.Move
	x.OnEngineMove = func(pos *board.Position, m board.Move) {
		if pos.LastMove != m {
			t.Errorf("hook position last move %s, want %s", pos.LastMove, m)
		}
		got = append(got, m)
	}
	if err := x.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 1 || "move "+got[0].String() != strings.TrimSpace(out.String()) {
		t.Errorf("hook saw %v, output %q", got, out.String())
	}
}

func TestDebugCommands(t *testing.T) {
	_, out := run(t, "d", "perft 2")

	var sawFEN, sawNodes bool
	for _, line := range out {
		sawFEN = sawFEN || line == board.StartFEN
		sawNodes = sawNodes || line == "Nodes: 400"
	}
	if !sawFEN || !sawNodes {
		t.Errorf("output = %q", out)
	}
}

type fakeArchive struct {
	saved   []*storage.GameRecord
	results []*storage.GameRecord
	err     error
}

func (a *fakeArchive) SaveGame(rec *storage.GameRecord) error {
	if a.err != nil {
		return a.err
	}
	rec.ID = uint64(len(a.saved) + 1)
	a.saved = append(a.saved, rec)
	return nil
}

func (a *fakeArchive) RecordResult(rec *storage.GameRecord) error {
	a.results = append(a.results, rec)
	return nil
}

func TestResultArchivesGame(t *testing.T) {
	var out bytes.Buffer
	in := "new\nforce\ne2e4\ne7e5\nresult 1-0 {White mates}\n"
	x := New(engine.Options{Depth: 2}, strings.NewReader(in), &out, nil)
	archive := &fakeArchive{}
	x.SetArchive(archive)

	if err := x.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(archive.saved) != 1 || len(archive.results) != 1 {
		t.Fatalf("saved %d games, recorded %d results", len(archive.saved), len(archive.results))
	}

	rec := archive.saved[0]
	if rec.Result != storage.ResultWhiteWins || rec.Reason != "White mates" {
		t.Errorf("result %q reason %q", rec.Result, rec.Reason)
	}
	if rec.EngineSide != "black" || rec.StartFEN != board.StartFEN {
		t.Errorf("engine side %q, start %q", rec.EngineSide, rec.StartFEN)
	}
	if strings.Join(rec.Moves, " ") != "e2e4 e7e5" {
		t.Errorf("moves = %v", rec.Moves)
	}
	if rec.FinishedAt.Before(rec.StartedAt) {
		t.Error("game finished before it started")
	}
}

func TestResultSaveFailure(t *testing.T) {
	x := New(engine.DefaultOptions(), strings.NewReader("result 0-1\n"), &bytes.Buffer{}, nil)
	archive := &fakeArchive{err: errors.New("disk full")}
	x.SetArchive(archive)

	if err := x.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(archive.results) != 0 {
		t.Error("result recorded for a game that was not saved")
	}
}

func TestResultWithStorage(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer store.Close()

	x := New(engine.Options{Depth: 2}, strings.NewReader("new\nforce\nd2d4\nresult 0-1 {Black wins}\n"), &bytes.Buffer{}, nil)
	x.SetArchive(store)
	if err := x.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	games, err := store.ListGames()
	if err != nil || len(games) != 1 {
		t.Fatalf("ListGames() = %v, %v", games, err)
	}
	stats, err := store.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 {
		t.Errorf("stats = %+v, want one win for the engine", stats)
	}
}
