package apperror

import "errors"

var (
	ErrGameNotFinished      = errors.New("game is not finished")
	ErrBoardFinished        = errors.New("board is already finished")
	ErrInvalidPlayer        = errors.New("invalid player identity")
	ErrInvalidMove          = errors.New("invalid move")
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrMatchNotFound        = errors.New("match not found")
)
