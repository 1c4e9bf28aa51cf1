package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gridgamesinc/board-engine/internal/apperror"
)

// DefaultSize is the side length of a standard board.
const DefaultSize = 3

// NoGlobalIndex marks a move that is not tracked in an outer replay sequence.
const NoGlobalIndex = -1

// Player identifies the source of a move. Self is the querying side, Opponent
// the other one. Unplayed never matches a win line.
type Player int

const (
	Unplayed Player = -1
	Self     Player = 0
	Opponent Player = 1
)

// Move is a zero-based (x, y) grid coordinate pair; x selects the row and y
// the column.
type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is the terminal outcome of a finished board, seen from Self's side.
type Result int

const (
	ResultTie  Result = -1
	ResultWin  Result = 0
	ResultLoss Result = 1
)

type status int

const (
	statusUndecided status = iota
	statusTie
	statusWon
)

// Cell holds one grid position: the owning player plus move-ordering metadata.
// LocalIndex is the ordinal of the move within this board, GlobalIndex the
// caller-supplied ordinal within an outer replay sequence. Both are -1 while
// the cell is unplayed.
type Cell struct {
	Player      Player `json:"player"`
	LocalIndex  int    `json:"local_index"`
	GlobalIndex int    `json:"global_index"`
}

// Board is a size×size grid of cells with move-count and result bookkeeping.
// It is a persistent value: every accepted move returns a new Board and the
// receiver is never mutated, so any snapshot stays valid for replay or
// branching.
type Board struct {
	size      int
	cells     [][]Cell
	moveCount int
	status    status
	winner    Player
}

// New returns an empty size×size board with an undecided result.
func New(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", apperror.ErrInvalidConfiguration, size)
	}

	cells := make([][]Cell, size)
	for y := range cells {
		row := make([]Cell, size)
		for x := range row {
			row[x] = Cell{Player: Unplayed, LocalIndex: -1, GlobalIndex: -1}
		}
		cells[y] = row
	}

	return &Board{
		size:   size,
		cells:  cells,
		winner: Unplayed,
	}, nil
}

func (that *Board) Size() int { return that.size }

func (that *Board) MoveCount() int { return that.moveCount }

func (that *Board) maxMoves() int { return that.size * that.size }

// At returns the cell at the given coordinates and whether they are in range.
func (that *Board) At(move Move) (Cell, bool) {
	if move.X < 0 || move.X >= that.size || move.Y < 0 || move.Y >= that.size {
		return Cell{}, false
	}
	return that.cells[move.X][move.Y], true
}

// IsFinished reports whether the board has a decided result; no further move
// is acceptable once it returns true.
func (that *Board) IsFinished() bool {
	return that.status != statusUndecided
}

// Result returns the terminal outcome. It fails with ErrGameNotFinished while
// the board is still undecided.
func (that *Board) Result() (Result, error) {
	switch that.status {
	case statusTie:
		return ResultTie, nil
	case statusWon:
		if that.winner == Self {
			return ResultWin, nil
		}
		return ResultLoss, nil
	default:
		return 0, apperror.ErrGameNotFinished
	}
}

// IsValidMove reports whether both coordinates are in [0, size) and the target
// cell is still unplayed. It does not consult the finished state.
func (that *Board) IsValidMove(move Move) bool {
	cell, ok := that.At(move)
	return ok && cell.Player == Unplayed
}

// AddSelfMove applies a move for the self identity and returns the resulting
// board. The receiver is left untouched.
func (that *Board) AddSelfMove(move Move, globalIndex int) (*Board, error) {
	return that.applyMove(Self, move, globalIndex)
}

// AddOpponentMove applies a move for the opponent identity and returns the
// resulting board. The receiver is left untouched.
func (that *Board) AddOpponentMove(move Move, globalIndex int) (*Board, error) {
	return that.applyMove(Opponent, move, globalIndex)
}

func (that *Board) applyMove(player Player, move Move, globalIndex int) (*Board, error) {
	if that.moveCount == that.maxMoves() || that.IsFinished() {
		return nil, apperror.ErrBoardFinished
	}

	if player != Self && player != Opponent {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, player)
	}

	if !that.IsValidMove(move) {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrInvalidMove, move.X, move.Y)
	}

	next := that.clone()
	next.cells[move.X][move.Y] = Cell{
		Player:      player,
		LocalIndex:  that.moveCount,
		GlobalIndex: globalIndex,
	}
	next.moveCount++

	next.resolveResult(move)

	return next, nil
}

func (that *Board) clone() *Board {
	cells := make([][]Cell, that.size)
	for y := range cells {
		cells[y] = make([]Cell, that.size)
		copy(cells[y], that.cells[y])
	}

	return &Board{
		size:      that.size,
		cells:     cells,
		moveCount: that.moveCount,
		status:    that.status,
		winner:    that.winner,
	}
}

// resolveResult checks the lines through the last move in a fixed order: row,
// column, main diagonal, anti diagonal. Checks stop once a winner is found.
// A full board without a winner is a tie.
func (that *Board) resolveResult(move Move) {
	winner := that.lineWinner(func(i int) Cell { return that.cells[move.X][i] })
	if winner == Unplayed {
		winner = that.lineWinner(func(i int) Cell { return that.cells[i][move.Y] })
	}
	if winner == Unplayed {
		winner = that.lineWinner(func(i int) Cell { return that.cells[i][i] })
	}
	if winner == Unplayed {
		winner = that.lineWinner(func(i int) Cell { return that.cells[i][that.size-1-i] })
	}

	if winner != Unplayed {
		that.status = statusWon
		that.winner = winner
		return
	}

	if that.moveCount == that.maxMoves() {
		that.status = statusTie
	}
}

// lineWinner returns the player owning every cell of the line, or Unplayed.
// An unplayed cell never matches, so a line of empty cells cannot win.
func (that *Board) lineWinner(cellAt func(i int) Cell) Player {
	first := cellAt(0).Player
	if first == Unplayed {
		return Unplayed
	}

	for i := 1; i < that.size; i++ {
		if cellAt(i).Player != first {
			return Unplayed
		}
	}

	return first
}

// PrettyPrint renders the grid as size lines of space-joined cell markers:
// "-" for an unplayed cell, the player numeral otherwise.
func (that *Board) PrettyPrint() string {
	lines := make([]string, that.size)

	for y, row := range that.cells {
		markers := make([]string, that.size)
		for x, cell := range row {
			if cell.Player == Unplayed {
				markers[x] = "-"
			} else {
				markers[x] = strconv.Itoa(int(cell.Player))
			}
		}
		lines[y] = strings.Join(markers, " ")
	}

	return strings.Join(lines, "\n")
}
