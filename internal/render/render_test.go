// path: internal/render/render_test.go
package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jcraver1021/flex-chess/internal/board"
	"github.com/jcraver1021/flex-chess/internal/grid"
)

func mustBoard(t *testing.T, shape grid.Point) *board.Board {
	t.Helper()
	b, err := board.New(shape)
	if err != nil {
		t.Fatalf("New(%v): %v", shape, err)
	}
	return b
}

func place(t *testing.T, b *board.Board, owner board.Player, token string, coords ...int) *board.Piece {
	t.Helper()
	pc := board.NewPiece(owner, token)
	if _, err := b.Set(grid.New(coords...), pc); err != nil {
		t.Fatalf("Set %s at %v: %v", token, coords, err)
	}
	return pc
}

func TestTextSingleRow(t *testing.T) {
	b := mustBoard(t, grid.New(5))
	place(t, b, "red", "R", 0)
	place(t, b, "blue", "b", 4)

	if got, want := Text(b), "R...b\n"; got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextTwoDimensions(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	place(t, b, "red", "R", 0, 0)
	place(t, b, "blue", "b", 2, 2)

	want := "R..\n...\n..b\n"
	if got := Text(b); got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextPanelsPerPrefix(t *testing.T) {
	b := mustBoard(t, grid.New(2, 2, 2))
	place(t, b, "red", "R", 0, 0, 0)
	place(t, b, "blue", "b", 1, 1, 1)

	want := "(0)\nR.\n..\n\n(1)\n..\n.b\n"
	if got := Text(b); got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextJailLines(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	place(t, b, "red", "R", 0, 0)
	for _, token := range []string{"q", "b"} {
		if err := b.Imprison("red", board.NewPiece("blue", token)); err != nil {
			t.Fatalf("Imprison %s: %v", token, err)
		}
	}

	want := "R..\n...\n...\n\nred's captures: b, q\n"
	if got := Text(b); got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestSVGPanels(t *testing.T) {
	b := mustBoard(t, grid.New(3, 3))
	place(t, b, "red", "R", 1, 1)

	var buf bytes.Buffer
	if err := SVG(&buf, b); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("output is not an svg document: %q", out)
	}
	if got := strings.Count(out, "<rect"); got != 9 {
		t.Fatalf("drew %d cells, want 9", got)
	}
	if !strings.Contains(out, ">R</text>") {
		t.Fatalf("token missing from output: %q", out)
	}
}

func TestSVGDeterministic(t *testing.T) {
	b := mustBoard(t, grid.New(2, 2, 2))
	place(t, b, "red", "R", 0, 0, 0)
	place(t, b, "blue", "b", 1, 0, 1)
	if err := b.Imprison("red", board.NewPiece("blue", "q")); err != nil {
		t.Fatalf("Imprison: %v", err)
	}

	var first, second bytes.Buffer
	if err := SVG(&first, b); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if err := SVG(&second, b); err != nil {
		t.Fatalf("SVG again: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("two renders of the same board differ")
	}
	if got := strings.Count(first.String(), "<rect"); got != 8 {
		t.Fatalf("drew %d cells, want 8", got)
	}
}
