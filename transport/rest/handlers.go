package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gridgamesinc/board-engine/internal/apperror"
	"github.com/gridgamesinc/board-engine/internal/board"
	"github.com/gridgamesinc/board-engine/internal/entity"
)

type MatchUseCase interface {
	CreateMatch(ctx context.Context, size int) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	PlayMove(ctx context.Context, id string, player board.Player, move board.Move) (*entity.Match, error)
	ReplayMatch(ctx context.Context, id string, upTo int) (*board.Board, error)
	BranchMatch(ctx context.Context, id string, upTo int) (*entity.Match, error)
	DeleteMatch(ctx context.Context, id string) error
}

type Handlers struct {
	logger  *slog.Logger
	matches MatchUseCase
}

func NewHandlers(logger *slog.Logger, matches MatchUseCase) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		matches: matches,
	}
}

type createMatchRequest struct {
	Size int `json:"size"`
}

type playMoveRequest struct {
	Player int `json:"player"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

type branchMatchRequest struct {
	UpTo int `json:"up_to"`
}

type matchResponse struct {
	ID        string              `json:"id"`
	Size      int                 `json:"size"`
	Moves     []entity.MoveRecord `json:"moves"`
	Finished  bool                `json:"finished"`
	Result    *int                `json:"result,omitempty"`
	BoardText string              `json:"board_text"`
}

type replayResponse struct {
	MoveCount int    `json:"move_count"`
	Finished  bool   `json:"finished"`
	BoardText string `json:"board_text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Handlers) CreateMatch(w http.ResponseWriter, r *http.Request) {
	req := createMatchRequest{Size: board.DefaultSize}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	match, err := that.matches.CreateMatch(r.Context(), req.Size)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newMatchResponse(match))
}

func (that *Handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchResponse(match))
}

func (that *Handlers) PlayMove(w http.ResponseWriter, r *http.Request) {
	var req playMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	match, err := that.matches.PlayMove(r.Context(), r.PathValue("id"), board.Player(req.Player), board.Move{X: req.X, Y: req.Y})
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchResponse(match))
}

func (that *Handlers) ReplayMatch(w http.ResponseWriter, r *http.Request) {
	upTo, err := strconv.Atoi(r.URL.Query().Get("up_to"))
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid up_to parameter"})
		return
	}

	replayed, err := that.matches.ReplayMatch(r.Context(), r.PathValue("id"), upTo)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, replayResponse{
		MoveCount: replayed.MoveCount(),
		Finished:  replayed.IsFinished(),
		BoardText: replayed.PrettyPrint(),
	})
}

func (that *Handlers) BranchMatch(w http.ResponseWriter, r *http.Request) {
	var req branchMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	branched, err := that.matches.BranchMatch(r.Context(), r.PathValue("id"), req.UpTo)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newMatchResponse(branched))
}

func (that *Handlers) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.DeleteMatch(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newMatchResponse(match *entity.Match) matchResponse {
	resp := matchResponse{
		ID:        match.ID,
		Size:      match.Size,
		Moves:     match.Moves,
		Finished:  match.IsFinished(),
		BoardText: match.Board.PrettyPrint(),
	}

	if result, err := match.Board.Result(); err == nil {
		value := int(result)
		resp.Result = &value
	}

	return resp
}

func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, apperror.ErrInvalidConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrBoardFinished),
		errors.Is(err, apperror.ErrGameNotFinished):
		status = http.StatusConflict
	default:
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("could not encode response", "error", err)
	}
}
