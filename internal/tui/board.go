package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"gamearena/internal/game"
)

// cellWidth is the number of columns each board cell takes on screen.
const cellWidth = 3

// Board draws the active match's glyphs with a cursor over them.
type Board struct {
	Box    *tview.Box
	glyphs [][]string
	valid  []game.Position
	cursor game.Position
	colors Colors
}

func NewBoard(colors Colors) *Board {
	b := &Board{Box: tview.NewBox(), colors: colors}
	b.Box.SetDrawFunc(b.draw)
	return b
}

// Update replaces the drawn glyphs and keeps the cursor on the board.
func (b *Board) Update(glyphs [][]string, v game.View) {
	b.glyphs = glyphs
	b.valid = v.ValidMoves
	b.MoveCursor(game.Position{})
}

func (b *Board) Cursor() game.Position { return b.cursor }

// MoveCursor shifts the cursor by d, clamped to the board.
func (b *Board) MoveCursor(d game.Position) {
	rows, cols := b.dims()
	if rows == 0 {
		b.cursor = game.Position{}
		return
	}
	p := b.cursor.Add(d)
	p.Row = min(max(p.Row, 0), rows-1)
	p.Col = min(max(p.Col, 0), cols-1)
	b.cursor = p
}

func (b *Board) dims() (int, int) {
	if len(b.glyphs) == 0 {
		return 0, 0
	}
	return len(b.glyphs), len(b.glyphs[0])
}

func (b *Board) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	// inside the border
	x, y, width, height = x+1, y+1, width-2, height-2
	base := tcell.StyleDefault.
		Background(tcell.PaletteColor(b.colors.Board)).
		Foreground(tcell.PaletteColor(b.colors.Glyph))
	for r, row := range b.glyphs {
		if r >= height {
			break
		}
		for c, g := range row {
			if (c+1)*cellWidth > width {
				break
			}
			p := game.Position{Row: r, Col: c}
			style := base
			switch {
			case p == b.cursor:
				style = style.Background(tcell.PaletteColor(b.colors.Cursor))
			case game.Contains(b.valid, p):
				style = style.Background(tcell.PaletteColor(b.colors.Valid))
			}
			drawCell(screen, style, g, x+c*cellWidth, y+r)
		}
	}
	return x, y, width, height
}

// drawCell centres g in a cellWidth-wide cell.
func drawCell(screen tcell.Screen, style tcell.Style, g string, x, y int) {
	for i := 0; i < cellWidth; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
	w := runewidth.StringWidth(g)
	if w > cellWidth {
		g = runewidth.Truncate(g, cellWidth, "")
		w = runewidth.StringWidth(g)
	}
	col := x + (cellWidth-w)/2
	for _, ch := range g {
		screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
