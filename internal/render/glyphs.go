package render

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Piece silhouettes on a 45x45 canvas. FILL and STROKE are replaced per
// color before parsing.
var glyphSVG = map[board.PieceType]string{
	board.Pawn: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<circle cx="22.5" cy="13" r="5.5" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
<path d="M17 21 Q22.5 16 28 21 L30 31 Q22.5 33 15 31 Z" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
<rect x="11" y="32" width="23" height="6" rx="2" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
</svg>`,
	board.Rook: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M11 9 L15 9 L15 12 L20 12 L20 9 L25 9 L25 12 L30 12 L30 9 L34 9 L34 15 L31 17 L31 30 L34 32 L34 36 L11 36 L11 32 L14 30 L14 17 L11 15 Z" fill="FILL" stroke="STROKE" stroke-width="1.5" stroke-linejoin="round"/>
<rect x="9" y="36" width="27" height="4" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
</svg>`,
	board.Bishop: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<circle cx="22.5" cy="8" r="2.5" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
<ellipse cx="22.5" cy="20" rx="7.5" ry="9.5" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
<path d="M15 30 L30 30 L32 34 L13 34 Z" fill="FILL" stroke="STROKE" stroke-width="1.5" stroke-linejoin="round"/>
<rect x="9" y="35" width="27" height="4" rx="2" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
</svg>`,
	board.Knight: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M22 10 C32 11 37 18 36 38 L14 38 C14 29 23 30 21 22 C18 24 16 27 12 27 C9 26 8 24 9 22 C13 17 15 13 20 11 L19 7 L22 10 Z" fill="FILL" stroke="STROKE" stroke-width="1.5" stroke-linejoin="round"/>
<circle cx="16" cy="17" r="1.2" fill="STROKE"/>
</svg>`,
	board.Queen: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M9 26 L7 13 L15 22 L17 10 L22.5 21 L28 10 L30 22 L38 13 L36 26 Q22.5 30 9 26 Z" fill="FILL" stroke="STROKE" stroke-width="1.5" stroke-linejoin="round"/>
<path d="M9 26 Q22.5 30 36 26 L35 33 Q22.5 36 10 33 Z" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
<rect x="10" y="34" width="25" height="4" rx="2" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
</svg>`,
	board.King: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45">
<path d="M21 5 L24 5 L24 8 L27 8 L27 11 L24 11 L24 15 L21 15 L21 11 L18 11 L18 8 L21 8 Z" fill="FILL" stroke="STROKE" stroke-width="1"/>
<path d="M22.5 16 C30 14 38 18 35 27 L32 33 L13 33 L10 27 C7 18 15 14 22.5 16 Z" fill="FILL" stroke="STROKE" stroke-width="1.5" stroke-linejoin="round"/>
<rect x="11" y="34" width="23" height="5" rx="2" fill="FILL" stroke="STROKE" stroke-width="1.5"/>
</svg>`,
}

type glyphKey struct {
	pt   board.PieceType
	c    board.Color
	size int
}

// glyphCache holds rasterised glyphs; diagrams reuse a handful of sizes.
var glyphCache = struct {
	sync.Mutex
	m map[glyphKey]*image.RGBA
}{m: make(map[glyphKey]*image.RGBA)}

// glyph returns the piece silhouette of kind pt and color c rendered into a
// size x size image.
func glyph(pt board.PieceType, c board.Color, size int) (*image.RGBA, error) {
	key := glyphKey{pt, c, size}

	glyphCache.Lock()
	defer glyphCache.Unlock()
	if img, ok := glyphCache.m[key]; ok {
		return img, nil
	}

	src, ok := glyphSVG[pt]
	if !ok {
		return nil, fmt.Errorf("render: no glyph for %s", pt)
	}
	fill, stroke := "#ffffff", "#000000"
	if c == board.Black {
		fill, stroke = "#222222", "#dddddd"
	}
	src = strings.NewReplacer("FILL", fill, "STROKE", stroke).Replace(src)

	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("render: parse %s glyph: %w", pt, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	glyphCache.m[key] = rgba
	return rgba, nil
}
