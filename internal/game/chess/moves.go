package chess

import "gamearena/internal/game"

var (
	knightOffsets = []game.Position{{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2}, {Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1}}
	kingOffsets   = game.Compass
)

// forward is the row step of a pawn of color c.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func startRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func lastRow(c Color) int {
	if c == White {
		return 0
	}
	return Size - 1
}

// ValidMoves returns every destination p may reach from from on b.
// Checks and pins are not considered. An off-board origin yields nil.
func ValidMoves(b Board, from game.Position, p Piece) []game.Position {
	if !from.In(Size, Size) || p.Empty() {
		return nil
	}
	var moves []game.Position

	step := func(to game.Position) {
		if !to.In(Size, Size) {
			return
		}
		if t := b.At(to); t.Empty() || t.Color != p.Color {
			moves = append(moves, to)
		}
	}
	slide := func(dirs []game.Position) {
		for _, d := range dirs {
			for to := from.Add(d); to.In(Size, Size); to = to.Add(d) {
				t := b.At(to)
				if t.Empty() {
					moves = append(moves, to)
					continue
				}
				if t.Color != p.Color {
					moves = append(moves, to)
				}
				break
			}
		}
	}

	switch p.Kind {
	case Pawn:
		dir := forward(p.Color)
		one := from.Add(game.Position{Row: dir})
		if one.In(Size, Size) && b.At(one).Empty() {
			moves = append(moves, one)
			two := one.Add(game.Position{Row: dir})
			if from.Row == startRow(p.Color) && b.At(two).Empty() {
				moves = append(moves, two)
			}
		}
		for _, dc := range [2]int{-1, 1} {
			to := from.Add(game.Position{Row: dir, Col: dc})
			if t := b.At(to); to.In(Size, Size) && !t.Empty() && t.Color != p.Color {
				moves = append(moves, to)
			}
		}
	case Rook:
		slide(game.Orthogonal)
	case Bishop:
		slide(game.Diagonal)
	case Queen:
		slide(game.Compass)
	case Knight:
		for _, d := range knightOffsets {
			step(from.Add(d))
		}
	case King:
		for _, d := range kingOffsets {
			step(from.Add(d))
		}
	}
	return moves
}

// ApplyMove relocates the moving piece, discarding any piece on the
// destination, and promotes pawns that reach the far rank.
func ApplyMove(b Board, m Move) Board {
	pc := b[m.From.Row][m.From.Col]
	if pc.Kind == Pawn && m.To.Row == lastRow(pc.Color) {
		pc.Kind = PromotionKind
	}
	b[m.To.Row][m.To.Col] = pc
	b[m.From.Row][m.From.Col] = Piece{}
	return b
}

// MoveCount returns how many moves side has across all of its pieces.
func MoveCount(b Board, side Color) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if pc := b[r][c]; !pc.Empty() && pc.Color == side {
				n += len(ValidMoves(b, game.Position{Row: r, Col: c}, pc))
			}
		}
	}
	return n
}

// IsCheckmate reports whether side still has its king and no legal move.
// The king is never tested for check, so a stalemate also counts.
func IsCheckmate(b Board, side Color) bool {
	if !hasKing(b, side) {
		return false
	}
	return MoveCount(b, side) == 0
}

func hasKing(b Board, side Color) bool {
	for r := range b {
		for c := range b[r] {
			if b[r][c].Kind == King && b[r][c].Color == side {
				return true
			}
		}
	}
	return false
}
