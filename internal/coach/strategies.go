package coach

import (
	"fmt"
	"strings"
)

const (
	defaultStrategy = "Focus on strategic play and think ahead."
	defaultTip      = "Think strategically and plan your moves ahead!"
)

var strategies = map[string]string{
	"chess": `Chess Strategy Guide:
- Opening: Control center (e4, d4), develop knights before bishops, castle early
- Middlegame: Create pawn structures, coordinate pieces, look for tactics
- Endgame: Activate king, push passed pawns, use piece activity
- Key principles: Piece development, king safety, pawn structure, piece activity`,

	"checkers": `Checkers Strategy Guide:
- Control the center squares for maximum mobility
- Advance pieces toward kinged position
- Maintain back row pieces to prevent opponent kings
- Force exchanges when ahead, avoid when behind
- Create multiple jump opportunities`,

	"tic-tac-toe": `Tic-Tac-Toe Strategy Guide:
- Always take center if available (best opening)
- If opponent takes center, take a corner
- Block opponent's winning moves immediately
- Create "forks" (two ways to win)
- Perfect play always results in a draw`,

	"connect-four": `Connect Four Strategy Guide:
- Control the center column - most flexible position
- Build vertical and diagonal threats
- Force opponent to block, then create secondary threats
- Watch for diagonal winning opportunities
- Plan 2-3 moves ahead`,

	"memory": `Memory Match Strategy Guide:
- Start from corners and edges (easier to remember)
- Create mental grid sections
- Focus on revealing new cards rather than random guessing
- When you find a card, remember its pair location
- Take your time - accuracy beats speed`,

	"snake-ladders": `Snake & Ladders Strategy Guide:
- This is primarily a luck-based game
- Memorize ladder and snake positions
- Key ladders: 2→38, 28→84, 80→100
- Dangerous snakes: 99→54, 87→24
- Stay patient and hope for good rolls`,

	"ludo": `Ludo Strategy Guide:
- Get all tokens out early (need 6 to start)
- Spread tokens across the board
- Use safe squares strategically
- Block opponent paths when possible
- Balance offense (advancing) and defense (staying safe)`,

	"reversi": `Reversi/Othello Strategy Guide:
- PRIORITY: Secure corners - they cannot be flipped
- Avoid edges early - they give opponent corner access
- Control mobility - limit opponent's valid moves
- In endgame, maximize disc count
- Sometimes fewer discs early = more options later`,

	"minesweeper": `Minesweeper Strategy Guide:
- Start with corners - they reveal more information
- Use number logic: if a 1 has one unrevealed adjacent, that's the mine
- Flag certain mines, but don't over-flag
- Look for patterns: 1-2-1, 1-2-2-1
- When stuck, guess near edges (fewer adjacent cells)`,

	"2048": `2048 Strategy Guide:
- CRITICAL: Keep highest tile in a corner
- Only move in 2-3 directions (avoid scattering)
- Build in descending order toward corner
- Never move away from your corner
- Chain merges for big combos`,
}

var fallbackTips = map[string]string{
	"chess":         "Focus on controlling the center and developing your pieces. Castle early for king safety!",
	"checkers":      "Try to advance toward the king row while keeping some pieces back for defense.",
	"tic-tac-toe":   "Always take the center if available, or a corner for the best strategic position.",
	"connect-four":  "Control the center column and look for diagonal winning opportunities!",
	"memory":        "Create a mental grid and remember card positions systematically.",
	"snake-ladders": "Good luck! Remember the key ladders at 2, 28, and 80.",
	"ludo":          "Spread your tokens and use safe squares strategically!",
	"reversi":       "Focus on securing corners - they can't be flipped!",
	"minesweeper":   "Use number logic carefully. If a 1 has one unrevealed neighbor, that's the mine!",
	"2048":          "Keep your highest tile in a corner and only move in 2-3 directions!",
}

// Fallback returns the canned tip for gameType.
func Fallback(gameType string) string {
	if tip, ok := fallbackTips[gameType]; ok {
		return tip
	}
	return defaultTip
}

// SystemPrompt builds the coaching instructions for one request.
func SystemPrompt(gameType string, st GameState) string {
	strategy, ok := strategies[gameType]
	if !ok {
		strategy = defaultStrategy
	}
	player := st.CurrentPlayer
	if player == "" {
		player = "N/A"
	}
	status := st.Status
	if status == "" {
		status = "playing"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s coach AI assistant. You provide strategic advice, move suggestions, and analysis to help players improve their game.\n\n",
		strings.ReplaceAll(gameType, "-", " "))
	b.WriteString(strategy)
	fmt.Fprintf(&b, "\n\nCurrent game state:\n- Current player/turn: %s\n- Game status: %s\n- Score: %d\n", player, status, st.Score)
	b.WriteString(`
Instructions:
1. Be concise but helpful (under 150 words unless detailed analysis requested)
2. Provide specific, actionable advice
3. Reference the strategy guide above when relevant
4. Be encouraging and supportive
5. If asked for best move, give a clear recommendation with reasoning`)
	return b.String()
}
