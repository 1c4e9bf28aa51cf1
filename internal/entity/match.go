package entity

import (
	"fmt"

	"github.com/gridgamesinc/board-engine/internal/apperror"
	"github.com/gridgamesinc/board-engine/internal/board"
)

// MoveRecord is one entry of a match's move log.
type MoveRecord struct {
	Player      board.Player `json:"player"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	GlobalIndex int          `json:"global_index"`
}

// Match is a single board plus the ordered log of the moves that produced it.
// The log replays deterministically from an empty board, which is what makes
// branching from any earlier point possible.
type Match struct {
	ID    string       `json:"id"`
	Size  int          `json:"size"`
	Moves []MoveRecord `json:"moves"`
	Board *board.Board `json:"board"`
}

func NewMatch(id string, size int) (*Match, error) {
	b, err := board.New(size)
	if err != nil {
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	return &Match{
		ID:    id,
		Size:  size,
		Board: b,
	}, nil
}

// Apply plays a move for the given identity, tagging it with the next global
// index. On success the current snapshot is replaced and the move logged; on
// failure the match is left untouched.
func (that *Match) Apply(player board.Player, move board.Move) error {
	globalIndex := len(that.Moves)

	var (
		next *board.Board
		err  error
	)

	switch player {
	case board.Self:
		next, err = that.Board.AddSelfMove(move, globalIndex)
	case board.Opponent:
		next, err = that.Board.AddOpponentMove(move, globalIndex)
	default:
		return fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, player)
	}

	if err != nil {
		return err
	}

	that.Board = next
	that.Moves = append(that.Moves, MoveRecord{
		Player:      player,
		X:           move.X,
		Y:           move.Y,
		GlobalIndex: globalIndex,
	})

	return nil
}

func (that *Match) IsFinished() bool {
	return that.Board.IsFinished()
}

// ReplayTo rebuilds the board as it was after the first n logged moves.
func (that *Match) ReplayTo(n int) (*board.Board, error) {
	if n < 0 || n > len(that.Moves) {
		return nil, fmt.Errorf("%w: replay point %d of %d moves", apperror.ErrInvalidMove, n, len(that.Moves))
	}

	b, err := board.New(that.Size)
	if err != nil {
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	for _, record := range that.Moves[:n] {
		move := board.Move{X: record.X, Y: record.Y}

		switch record.Player {
		case board.Self:
			b, err = b.AddSelfMove(move, record.GlobalIndex)
		case board.Opponent:
			b, err = b.AddOpponentMove(move, record.GlobalIndex)
		default:
			return nil, fmt.Errorf("%w: %d in move log", apperror.ErrInvalidPlayer, record.Player)
		}

		if err != nil {
			return nil, fmt.Errorf("could not replay move %d: %w", record.GlobalIndex, err)
		}
	}

	return b, nil
}

// Branch creates a new match that shares the first n moves of this one and
// then diverges. The source match is not modified.
func (that *Match) Branch(id string, n int) (*Match, error) {
	b, err := that.ReplayTo(n)
	if err != nil {
		return nil, err
	}

	moves := make([]MoveRecord, n)
	copy(moves, that.Moves[:n])

	return &Match{
		ID:    id,
		Size:  that.Size,
		Moves: moves,
		Board: b,
	}, nil
}
