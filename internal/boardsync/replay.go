package boardsync

import (
	"fmt"

	chesslib "github.com/corentings/chess/v2"
)

// replayDestination plays history from the initial position and returns the
// target square of the last move.
func replayDestination(history []string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty history")
	}
	game := chesslib.NewGame()
	notation := chesslib.AlgebraicNotation{}
	for i, mv := range history {
		if err := game.PushNotationMove(mv, notation, nil); err != nil {
			return "", fmt.Errorf("replay ply %d %q: %w", i, mv, err)
		}
	}
	moves := game.Moves()
	if len(moves) == 0 {
		return "", fmt.Errorf("no moves replayed")
	}
	return moves[len(moves)-1].S2().String(), nil
}
