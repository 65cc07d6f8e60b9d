// Command sigsegv-render draws a crazyhouse FEN as a PNG diagram.
//
//	sigsegv-render -o board.png 'r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R[] w KQkq - 2 1'
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/hailam/sigsegv/internal/render"
)

var (
	output = flag.String("o", "board.png", "output file (\"-\" for stdout)")
	size   = flag.Int("size", 64, "square size in pixels")
	flip   = flag.Bool("flip", false, "draw with Black at the bottom")
	moves  = flag.String("moves", "", "space separated moves to play before drawing")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sigsegv-render: ")
	flag.Parse()

	fen := board.StartFEN
	if flag.NArg() > 0 {
		fen = strings.Join(flag.Args(), " ")
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		log.Fatal(err)
	}
	if err := pos.Validate(); err != nil {
		log.Fatalf("invalid position: %v", err)
	}
	if err := playMoves(pos, *moves); err != nil {
		log.Fatal(err)
	}

	opts := render.DefaultOptions()
	opts.SquareSize = *size
	opts.Flip = *flip

	w := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}

	if err := render.WritePNG(w, pos, opts); err != nil {
		log.Fatal(err)
	}
}

// playMoves applies each move for the side to move, accepting only moves
// the generator would produce.
func playMoves(pos *board.Position, list string) error {
	for _, s := range strings.Fields(list) {
		m, err := board.ParseMove(s)
		if err != nil {
			return err
		}
		if !pos.GenerateAll(pos.SideToMove).Contains(m) {
			return fmt.Errorf("%s is not legal in %s", m, pos.FEN())
		}
		pos.Apply(m, pos.SideToMove)
	}
	return nil
}
