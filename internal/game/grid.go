package game

// Position is a 0-indexed (row, col) cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add offsets p by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Scale multiplies both components by n.
func (p Position) Scale(n int) Position {
	return Position{Row: p.Row * n, Col: p.Col * n}
}

// In reports whether p lies inside a rows×cols grid.
func (p Position) In(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}

var (
	Orthogonal = []Position{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	Diagonal   = []Position{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	// Compass holds all eight neighbour offsets.
	Compass = append(append([]Position{}, Orthogonal...), Diagonal...)
	// Axes are the four line directions used by n-in-a-row checks.
	Axes = []Position{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
)

// Contains reports whether ps holds p.
func Contains(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// LineLength counts the contiguous run through p along axis d, walking
// outward in both directions while same reports true. p itself counts as one.
func LineLength(rows, cols int, p, d Position, same func(Position) bool) int {
	n := 1
	for _, sign := range [2]int{1, -1} {
		step := d.Scale(sign)
		for q := p.Add(step); q.In(rows, cols) && same(q); q = q.Add(step) {
			n++
		}
	}
	return n
}

// CompletesLine reports whether p sits on a run of at least n along any axis.
func CompletesLine(rows, cols int, p Position, n int, same func(Position) bool) bool {
	for _, d := range Axes {
		if LineLength(rows, cols, p, d, same) >= n {
			return true
		}
	}
	return false
}
