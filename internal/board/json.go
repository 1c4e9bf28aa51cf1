package board

import (
	"encoding/json"
	"fmt"

	"github.com/gridgamesinc/board-engine/internal/apperror"
)

const (
	statusNameUndecided = "undecided"
	statusNameTie       = "tie"
	statusNameWon       = "won"
)

// boardSnapshot is the stored form of a board.
type boardSnapshot struct {
	Size      int      `json:"size"`
	Cells     [][]Cell `json:"cells"`
	MoveCount int      `json:"move_count"`
	Status    string   `json:"status"`
	Winner    Player   `json:"winner"`
}

func (that *Board) MarshalJSON() ([]byte, error) {
	snapshot := boardSnapshot{
		Size:      that.size,
		Cells:     that.cells,
		MoveCount: that.moveCount,
		Winner:    that.winner,
	}

	switch that.status {
	case statusTie:
		snapshot.Status = statusNameTie
	case statusWon:
		snapshot.Status = statusNameWon
	default:
		snapshot.Status = statusNameUndecided
	}

	return json.Marshal(snapshot)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var snapshot boardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("could not unmarshal board snapshot: %w", err)
	}

	if snapshot.Size < 1 || len(snapshot.Cells) != snapshot.Size {
		return fmt.Errorf("%w: snapshot size %d with %d rows", apperror.ErrInvalidConfiguration, snapshot.Size, len(snapshot.Cells))
	}
	for y, row := range snapshot.Cells {
		if len(row) != snapshot.Size {
			return fmt.Errorf("%w: row %d has %d cells", apperror.ErrInvalidConfiguration, y, len(row))
		}
	}

	var parsedStatus status
	switch snapshot.Status {
	case statusNameUndecided:
		parsedStatus = statusUndecided
	case statusNameTie:
		parsedStatus = statusTie
	case statusNameWon:
		parsedStatus = statusWon
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrInvalidConfiguration, snapshot.Status)
	}

	that.size = snapshot.Size
	that.cells = snapshot.Cells
	that.moveCount = snapshot.MoveCount
	that.status = parsedStatus
	that.winner = snapshot.Winner

	return nil
}
