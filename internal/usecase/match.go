package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

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

type matchRepository interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type matchUseCase struct {
	logger    *slog.Logger
	matchRepo matchRepository
}

func NewMatchUseCase(logger *slog.Logger, matchRepo matchRepository) MatchUseCase {
	return &matchUseCase{
		logger:    logger.With("component", "match_usecase"),
		matchRepo: matchRepo,
	}
}

func (that *matchUseCase) CreateMatch(ctx context.Context, size int) (*entity.Match, error) {
	match, err := entity.NewMatch(generateMatchID(), size)
	if err != nil {
		return nil, fmt.Errorf("could not create match: %w", err)
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("could not store match: %w", err)
	}

	that.logger.Info("match created", "match_id", match.ID, "size", size)

	return match, nil
}

func (that *matchUseCase) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

func (that *matchUseCase) PlayMove(ctx context.Context, id string, player board.Player, move board.Move) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err = match.Apply(player, move); err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("could not store match: %w", err)
	}

	that.logger.Info("move played",
		"match_id", match.ID,
		"player", int(player),
		"x", move.X,
		"y", move.Y,
		"finished", match.IsFinished(),
	)

	return match, nil
}

func (that *matchUseCase) ReplayMatch(ctx context.Context, id string, upTo int) (*board.Board, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	replayed, err := match.ReplayTo(upTo)
	if err != nil {
		return nil, fmt.Errorf("failed to replay match: %w", err)
	}

	return replayed, nil
}

func (that *matchUseCase) BranchMatch(ctx context.Context, id string, upTo int) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	branched, err := match.Branch(generateMatchID(), upTo)
	if err != nil {
		return nil, fmt.Errorf("failed to branch match: %w", err)
	}

	if err = that.matchRepo.CreateOrUpdate(ctx, branched); err != nil {
		return nil, fmt.Errorf("could not store branched match: %w", err)
	}

	that.logger.Info("match branched", "match_id", id, "branch_id", branched.ID, "up_to", upTo)

	return branched, nil
}

func (that *matchUseCase) DeleteMatch(ctx context.Context, id string) error {
	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	that.logger.Info("match deleted", "match_id", id)

	return nil
}

// generateMatchID - generates a new unique match ID.
func generateMatchID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-match-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
