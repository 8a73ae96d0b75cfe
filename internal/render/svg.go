// path: internal/render/svg.go
package render

import (
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
)

const (
	cellPx    = 48
	marginPx  = 12
	labelPx   = 18
	lightFill = "fill:#f0d9b5"
	darkFill  = "fill:#b58863"
)

// tokenStyles colors pieces by owner in sorted owner order, cycling
// when a variant fields more players than styles.
var tokenStyles = []string{
	"fill:#fafafa;stroke:#1f1f1f;stroke-width:1.2px",
	"fill:#1f1f1f",
	"fill:#b00020",
	"fill:#1a53ff",
}

// errWriter latches the first write error so the canvas calls can stay
// unchecked.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}

// SVG renders the board's cross sections as checkered panels with the
// piece tokens drawn on top, one panel per prefix, jail lines at the
// bottom. Output is deterministic for a given board state.
func SVG(w io.Writer, b *board.Board) error {
	shape := b.Shape()
	rows, cols := panelExtents(shape)
	pre := prefixes(shape)
	labeled := len(shape) > 2
	jail := jailLines(b)

	panelH := rows * cellPx
	if labeled {
		panelH += labelPx
	}
	width := cols*cellPx + 2*marginPx
	height := marginPx + len(pre)*(panelH+marginPx) + len(jail)*labelPx
	if len(jail) > 0 {
		height += marginPx
	}

	styles := ownerStyles(b)
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)

	y := marginPx
	for _, prefix := range pre {
		if labeled {
			canvas.Text(marginPx, y+labelPx-4, prefix.String(),
				"font-family:monospace;font-size:14px;fill:#333")
			y += labelPx
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				x := marginPx + c*cellPx
				fill := lightFill
				if (r+c)%2 == 1 {
					fill = darkFill
				}
				canvas.Rect(x, y+r*cellPx, cellPx, cellPx, fill)
				pc, err := b.At(cellPoint(shape, prefix, r, c))
				if err != nil || pc == nil {
					continue
				}
				canvas.Text(x+cellPx/2, y+r*cellPx+cellPx*2/3, pc.Token(),
					"font-family:monospace;font-size:24px;text-anchor:middle;"+styles[pc.Owner()])
			}
		}
		y += rows*cellPx + marginPx
	}
	for _, line := range jail {
		y += labelPx
		canvas.Text(marginPx, y, line, "font-family:monospace;font-size:14px;fill:#333")
	}
	canvas.End()
	return ew.err
}

func ownerStyles(b *board.Board) map[board.Player]string {
	seen := make(map[board.Player]bool)
	b.Each(func(_ grid.Point, pc *board.Piece) bool {
		if pc != nil {
			seen[pc.Owner()] = true
		}
		return true
	})
	for _, owner := range b.Captors() {
		for _, pc := range b.Jail(owner) {
			seen[pc.Owner()] = true
		}
	}
	owners := make([]board.Player, 0, len(seen))
	for o := range seen {
		owners = append(owners, o)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	styles := make(map[board.Player]string, len(owners))
	for i, o := range owners {
		styles[o] = tokenStyles[i%len(tokenStyles)]
	}
	return styles
}
