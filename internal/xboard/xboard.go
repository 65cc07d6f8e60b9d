// Package xboard speaks the xboard/CECP text protocol on top of a bot
// session.
package xboard

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/hailam/sigsegv/internal/bot"
	"github.com/hailam/sigsegv/internal/engine"
	"github.com/hailam/sigsegv/internal/storage"
)

// Variant is the only variant the engine plays.
const Variant = "crazyhouse"

// Archive stores finished games.
type Archive interface {
	SaveGame(rec *storage.GameRecord) error
	RecordResult(rec *storage.GameRecord) error
}

// XBoard implements the xboard protocol.
type XBoard struct {
	bot *bot.Bot

	in     io.Reader
	out    io.Writer
	logger *log.Logger

	// Bot signals are buffered so they follow the move that caused them.
	signals bytes.Buffer

	post      bool
	startFEN  string
	startedAt time.Time
	archive   Archive

	// OnEngineMove is called with the position after every engine move.
	OnEngineMove func(pos *board.Position, m board.Move)
}

// New creates a protocol handler reading commands from in and writing
// replies to out.
func New(opts engine.Options, in io.Reader, out io.Writer, logger *log.Logger) *XBoard {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	x := &XBoard{
		in:     in,
		out:    out,
		logger: logger,
	}
	x.bot = bot.New(opts, &x.signals, logger)
	x.newGame()
	return x
}

// SetArchive makes result store every finished game in a.
func (x *XBoard) SetArchive(a Archive) {
	x.archive = a
}

// Bot returns the underlying session.
func (x *XBoard) Bot() *bot.Bot {
	return x.bot
}

// Run reads commands until quit or end of input.
func (x *XBoard) Run() error {
	scanner := bufio.NewScanner(x.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := x.handle(line); quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read command: %w", err)
	}
	return nil
}

// handle runs one command line and reports whether it was quit.
func (x *XBoard) handle(line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "xboard", "accepted", "rejected", "?":
	case "protover":
		x.send("feature ping=1 setboard=1 usermove=1 san=0 sigterm=0 sigint=0 variants=\"%s\" myname=\"%s\" done=1",
			Variant, x.bot.Name())
	case "new":
		x.newGame()
	case "variant":
		if len(args) == 0 || args[0] != Variant {
			x.send("Error (unsupported variant): %s", strings.Join(args, " "))
		}
	case "force":
		x.bot.SetMode(bot.Force)
	case "go":
		x.bot.SetMode(bot.Normal)
		x.bot.SetPlaySide(x.bot.Position().SideToMove)
		x.think()
	case "playother":
		x.bot.SetMode(bot.Normal)
		x.bot.SetPlaySide(x.bot.Position().SideToMove.Other())
	case "white":
		x.bot.SetPlaySide(board.Black)
	case "black":
		x.bot.SetPlaySide(board.White)
	case "usermove":
		if len(args) == 0 {
			x.send("Error (missing move): usermove")
			break
		}
		x.handleMove(args[0])
	case "setboard":
		x.handleSetBoard(strings.Join(args, " "))
	case "result":
		x.handleResult(args)
	case "ping":
		x.send("pong %s", strings.Join(args, " "))
	case "post":
		x.post = true
	case "nopost":
		x.post = false
	case "sd":
		if len(args) > 0 {
			if depth, err := strconv.Atoi(args[0]); err == nil {
				x.bot.SetDepth(depth)
			}
		}
	case "quit":
		return true

	// Clock and opponent information the engine has no use for.
	case "level", "st", "time", "otim", "easy", "hard", "random", "computer", "name", "rating":

	// Debug commands
	case "d":
		pos := x.bot.Position()
		x.send("%s", pos.String())
		x.send("%s", pos.FEN())
	case "perft":
		x.handlePerft(args)

	default:
		if _, err := board.ParseMove(cmd); err == nil {
			x.handleMove(cmd)
			break
		}
		x.send("Error (unknown command): %s", cmd)
	}
	return false
}

func (x *XBoard) newGame() {
	x.bot.Reset()
	x.startFEN = board.StartFEN
	x.startedAt = time.Now()
}

// handleMove records the opponent's move and replies when it is the
// engine's turn.
func (x *XBoard) handleMove(s string) {
	m, err := board.ParseMove(s)
	if err != nil {
		x.send("Illegal move: %s", s)
		return
	}

	side := x.bot.Position().SideToMove
	if err := x.bot.RecordMove(m, side); err != nil {
		x.logger.Printf("xboard: %v", err)
		x.send("Illegal move: %s", s)
		return
	}

	if x.bot.Mode() == bot.Normal && x.bot.Position().SideToMove == x.bot.PlaySide() {
		x.think()
	}
}

// think computes and plays the engine's move.
func (x *XBoard) think() {
	m, ok := x.bot.CalculateNextMove()

	if res := x.bot.LastResult(); x.post && !res.Move.IsResign() {
		x.send("%d %d %d %d %s", res.Depth, res.Score, res.Elapsed.Milliseconds()/10, res.Nodes, res.Move)
	}
	if ok {
		x.send("move %s", m)
		if x.OnEngineMove != nil {
			x.OnEngineMove(x.bot.Position(), m)
		}
	}
	x.flushSignals()
}

func (x *XBoard) handleSetBoard(fen string) {
	pos, err := board.ParseFEN(fen)
	if err == nil {
		err = pos.Validate()
	}
	if err != nil {
		x.logger.Printf("xboard: setboard %q: %v", fen, err)
		x.send("tellusererror Illegal position")
		return
	}
	x.bot.SetPosition(pos)
	x.startFEN = pos.FEN()
}

// handleResult archives the finished game. The arguments are the result
// token and an optional {comment}.
func (x *XBoard) handleResult(args []string) {
	if x.archive == nil || len(args) == 0 {
		return
	}

	rec := &storage.GameRecord{
		EngineSide: strings.ToLower(x.bot.PlaySide().String()),
		StartFEN:   x.startFEN,
		Result:     args[0],
		Reason:     strings.Trim(strings.Join(args[1:], " "), "{}"),
		StartedAt:  x.startedAt,
		FinishedAt: time.Now(),
	}
	for _, m := range x.bot.History() {
		rec.Moves = append(rec.Moves, m.String())
	}

	if err := x.archive.SaveGame(rec); err != nil {
		x.logger.Printf("xboard: save game: %v", err)
		return
	}
	if err := x.archive.RecordResult(rec); err != nil {
		x.logger.Printf("xboard: record result: %v", err)
		return
	}
	x.logger.Printf("xboard: archived game %d (%s)", rec.ID, rec.Result)
}

func (x *XBoard) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	pos := x.bot.Position()
	start := time.Now()
	nodes := pos.Perft(pos.SideToMove, depth)
	elapsed := time.Since(start)

	x.send("Nodes: %d", nodes)
	x.send("Time: %v", elapsed)
}

func (x *XBoard) flushSignals() {
	if x.signals.Len() == 0 {
		return
	}
	x.out.Write(x.signals.Bytes())
	x.signals.Reset()
}

func (x *XBoard) send(format string, args ...any) {
	fmt.Fprintf(x.out, format+"\n", args...)
}
