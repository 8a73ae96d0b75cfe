// path: internal/render/text.go

// Package render draws board state for humans: plain text panels and
// SVG. Boards above two dimensions render as one panel per leading-axes
// prefix over the final two axes; one-dimensional boards are a single
// row.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
)

const emptyCell = "."

// Text renders the board as cross-section panels followed by the jail
// contents. Within a panel the row axis grows downward and the column
// axis rightward; tokens print as-is.
func Text(b *board.Board) string {
	var sb strings.Builder
	shape := b.Shape()
	for i, prefix := range prefixes(shape) {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(shape) > 2 {
			sb.WriteString(prefix.String())
			sb.WriteString("\n")
		}
		writePanel(&sb, b, shape, prefix)
	}
	for i, line := range jailLines(b) {
		if i == 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// prefixes lists the leading-axes coordinates, one per panel. Boards of
// dimension two or less have a single panel with no prefix.
func prefixes(shape grid.Point) []grid.Point {
	if len(shape) <= 2 {
		return []grid.Point{nil}
	}
	var out []grid.Point
	it := grid.PointsOf(shape[:len(shape)-2])
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		out = append(out, p)
	}
	return out
}

func panelExtents(shape grid.Point) (rows, cols int) {
	if len(shape) == 1 {
		return 1, shape[0]
	}
	return shape[len(shape)-2], shape[len(shape)-1]
}

func cellPoint(shape, prefix grid.Point, r, c int) grid.Point {
	if len(shape) == 1 {
		return grid.Point{c}
	}
	p := make(grid.Point, 0, len(shape))
	p = append(p, prefix...)
	return append(p, r, c)
}

func writePanel(sb *strings.Builder, b *board.Board, shape, prefix grid.Point) {
	rows, cols := panelExtents(shape)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pc, err := b.At(cellPoint(shape, prefix, r, c))
			if err != nil || pc == nil {
				sb.WriteString(emptyCell)
				continue
			}
			sb.WriteString(pc.Token())
		}
		sb.WriteString("\n")
	}
}

func jailLines(b *board.Board) []string {
	var out []string
	for _, owner := range b.Captors() {
		pieces := b.Jail(owner)
		tokens := make([]string, 0, len(pieces))
		for _, pc := range pieces {
			tokens = append(tokens, pc.Token())
		}
		sort.Strings(tokens)
		out = append(out, fmt.Sprintf("%s's captures: %s", owner, strings.Join(tokens, ", ")))
	}
	return out
}
