package chess

import (
	"encoding/json"
	"fmt"

	"gamearena/internal/game"
)

// Size is the board dimension.
const Size = 8

// Color identifies a side.
type Color int8

const (
	NoColor Color = iota
	White
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Kind is a piece type. The zero Kind marks an empty square.
type Kind int8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var kindNames = [...]string{"", "pawn", "rook", "knight", "bishop", "queen", "king"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// PromotionKind is what a pawn becomes on reaching the far rank.
const PromotionKind = Queen

// Piece is a chess piece; the zero value is an empty square.
type Piece struct {
	Kind  Kind  `json:"type"`
	Color Color `json:"color"`
}

// Empty reports whether the square holds no piece.
func (p Piece) Empty() bool { return p.Kind == NoKind }

// Board is an 8×8 grid indexed [row][col]; row 0 is black's back rank.
type Board [Size][Size]Piece

// At returns the piece on p, or an empty piece when p is off the board.
func (b *Board) At(p game.Position) Piece {
	if !p.In(Size, Size) {
		return Piece{}
	}
	return b[p.Row][p.Col]
}

// MarshalJSON encodes empty squares as null.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for r := range b {
		rows[r] = make([]*Piece, Size)
		for c := range b[r] {
			if !b[r][c].Empty() {
				pc := b[r][c]
				rows[r][c] = &pc
			}
		}
	}
	return json.Marshal(rows)
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting layout.
func NewBoard() Board {
	var b Board
	for col := 0; col < Size; col++ {
		b[0][col] = Piece{Kind: backRank[col], Color: Black}
		b[1][col] = Piece{Kind: Pawn, Color: Black}
		b[6][col] = Piece{Kind: Pawn, Color: White}
		b[7][col] = Piece{Kind: backRank[col], Color: White}
	}
	return b
}

// Move is a single ply.
type Move struct {
	From  game.Position `json:"from"`
	To    game.Position `json:"to"`
	Piece Piece         `json:"piece"`
}

// String renders m in long algebraic form, e.g. "e2-e4".
func (m Move) String() string {
	return square(m.From) + "-" + square(m.To)
}

func square(p game.Position) string {
	return fmt.Sprintf("%c%d", 'a'+p.Col, Size-p.Row)
}

var glyphs = map[Kind]string{Pawn: "p", Rook: "r", Knight: "n", Bishop: "b", Queen: "q", King: "k"}

// glyph renders white pieces upper case and black pieces lower case.
func (p Piece) glyph() string {
	if p.Empty() {
		return "."
	}
	g := glyphs[p.Kind]
	if p.Color == White {
		return string(g[0] - 'a' + 'A')
	}
	return g
}
