package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// layout holds the pixel geometry of one diagram.
//
// From top to bottom: the pocket of the side drawn at the top, the board,
// a gutter with file letters, and the pocket of the side at the bottom.
// Rank digits sit in a gutter left of the board.
type layout struct {
	sq     int
	gutter int
	flip   bool
}

func newLayout(opts Options) layout {
	sq := opts.SquareSize
	if sq <= 0 {
		sq = 64
	}
	return layout{sq: sq, gutter: sq / 3, flip: opts.Flip}
}

func (l layout) size() image.Point {
	return image.Pt(l.gutter+8*l.sq, 10*l.sq+l.gutter)
}

func (l layout) boardTop() int { return l.sq }

// square returns the screen rectangle of sq.
func (l layout) square(sq board.Square) image.Rectangle {
	col, row := sq.File(), 7-sq.Rank()
	if l.flip {
		col, row = 7-sq.File(), sq.Rank()
	}
	x := l.gutter + col*l.sq
	y := l.boardTop() + row*l.sq
	return image.Rect(x, y, x+l.sq, y+l.sq)
}

// pocketSlot returns the rectangle for reserve kind pt of color c.
func (l layout) pocketSlot(c board.Color, pt board.PieceType) image.Rectangle {
	top := c == board.Black
	if l.flip {
		top = !top
	}
	y := 9*l.sq + l.gutter
	if top {
		y = 0
	}
	x := l.gutter + int(pt)*l.sq
	return image.Rect(x, y, x+l.sq, y+l.sq)
}

// Board draws pos as a diagram: the squares, the pieces, promoted markers,
// both pockets with their counts, the coordinates, and the last move and a
// capturable king highlighted.
func Board(pos *board.Position, opts Options) (*image.RGBA, error) {
	l := newLayout(opts)
	th := opts.Theme
	if th == (Theme{}) {
		th = DefaultTheme()
	}

	dst := image.NewRGBA(image.Rectangle{Max: l.size()})
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	drawSquares(dst, l, th, pos)

	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.Board[sq]
		if p == board.Empty {
			continue
		}
		if err := drawPiece(dst, l.square(sq), p.Type(), p.Color()); err != nil {
			return nil, err
		}
		if p.IsPromoted() {
			markPromoted(dst, l.square(sq), th.PromotedMark)
		}
	}

	if err := drawLabels(dst, l, th, pos); err != nil {
		return nil, err
	}
	return dst, nil
}

// WritePNG encodes the diagram of pos to w.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Board(pos, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

func drawSquares(dst *image.RGBA, l layout, th Theme, pos *board.Position) {
	for sq := board.A1; sq <= board.H8; sq++ {
		c := th.LightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			c = th.DarkSquare
		}
		draw.Draw(dst, l.square(sq), image.NewUniform(c), image.Point{}, draw.Src)
	}

	if m := pos.LastMove; !m.IsResign() {
		if !m.IsDrop() {
			overlay(dst, l.square(m.From()), th.LastMoveColor)
		}
		overlay(dst, l.square(m.To()), th.LastMoveColor)
	}

	if pos.KingCapturable(pos.SideToMove) {
		if k := pos.KingSquare(pos.SideToMove); k != board.NoSquare {
			overlay(dst, l.square(k), th.CheckColor)
		}
	}
}

func overlay(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// drawPiece centers the glyph for pt in r, inset by an eighth of the cell.
func drawPiece(dst *image.RGBA, r image.Rectangle, pt board.PieceType, c board.Color) error {
	inset := r.Dx() / 8
	size := r.Dx() - 2*inset
	g, err := glyph(pt, c, size)
	if err != nil {
		return err
	}
	at := r.Min.Add(image.Pt(inset, inset))
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(g.Bounds().Size())}, g, image.Point{}, draw.Over)
	return nil
}

// markPromoted puts a dot in the top right corner of r.
func markPromoted(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetColor(c)

	radius := float64(r.Dx()) / 10
	cx := float64(r.Max.X) - 1.5*radius
	cy := float64(r.Min.Y) + 1.5*radius
	rasterx.AddCircle(cx, cy, radius, filler)
	filler.Draw()
}

func drawLabels(dst *image.RGBA, l layout, th Theme, pos *board.Position) error {
	coordFace, err := newFace(float64(l.gutter)*0.7, false)
	if err != nil {
		return err
	}
	defer coordFace.Close()

	countFace, err := newFace(float64(l.sq)/4, true)
	if err != nil {
		return err
	}
	defer countFace.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.TextColor), Face: coordFace}

	for i := 0; i < 8; i++ {
		file := board.NewSquare(i, 0)
		r := l.square(file)
		label := string(rune('a' + i))
		w := d.MeasureString(label).Ceil()
		d.Dot = fixed.P(r.Min.X+(l.sq-w)/2, 9*l.sq+l.gutter*4/5)
		d.DrawString(label)

		rank := board.NewSquare(0, i)
		r = l.square(rank)
		label = strconv.Itoa(i + 1)
		w = d.MeasureString(label).Ceil()
		d.Dot = fixed.P((l.gutter-w)/2, r.Min.Y+(l.sq+l.gutter)/2)
		d.DrawString(label)
	}

	d.Face = countFace
	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt < board.PoolKinds; pt++ {
			n := pos.PoolCount(c, pt)
			if n == 0 {
				continue
			}
			r := l.pocketSlot(c, pt)
			if err := drawPiece(dst, r, pt, c); err != nil {
				return err
			}
			label := strconv.Itoa(n)
			w := d.MeasureString(label).Ceil()
			d.Dot = fixed.P(r.Max.X-w-2, r.Max.Y-4)
			d.DrawString(label)
		}
	}
	return nil
}
