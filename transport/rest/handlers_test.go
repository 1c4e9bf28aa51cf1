package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridgamesinc/board-engine/internal/apperror"
	"github.com/gridgamesinc/board-engine/internal/board"
	"github.com/gridgamesinc/board-engine/internal/entity"
)

// fakeUseCase keeps a single match in memory.
type fakeUseCase struct {
	match *entity.Match
}

func (that *fakeUseCase) CreateMatch(_ context.Context, size int) (*entity.Match, error) {
	match, err := entity.NewMatch("m1", size)
	if err != nil {
		return nil, err
	}

	that.match = match

	return match, nil
}

func (that *fakeUseCase) GetMatch(_ context.Context, id string) (*entity.Match, error) {
	if that.match == nil || that.match.ID != id {
		return nil, apperror.ErrMatchNotFound
	}
	return that.match, nil
}

func (that *fakeUseCase) PlayMove(ctx context.Context, id string, player board.Player, move board.Move) (*entity.Match, error) {
	match, err := that.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = match.Apply(player, move); err != nil {
		return nil, err
	}

	return match, nil
}

func (that *fakeUseCase) ReplayMatch(ctx context.Context, id string, upTo int) (*board.Board, error) {
	match, err := that.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	return match.ReplayTo(upTo)
}

func (that *fakeUseCase) BranchMatch(ctx context.Context, id string, upTo int) (*entity.Match, error) {
	match, err := that.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	return match.Branch("m2", upTo)
}

func (that *fakeUseCase) DeleteMatch(ctx context.Context, id string) error {
	if _, err := that.GetMatch(ctx, id); err != nil {
		return err
	}

	that.match = nil

	return nil
}

func newTestServer() (*httptest.Server, *fakeUseCase) {
	matches := &fakeUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := NewHandlers(logger, matches)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.Ping)
	mux.HandleFunc("POST /match", handlers.CreateMatch)
	mux.HandleFunc("GET /match/{id}", handlers.GetMatch)
	mux.HandleFunc("POST /match/{id}/move", handlers.PlayMove)
	mux.HandleFunc("GET /match/{id}/replay", handlers.ReplayMatch)
	mux.HandleFunc("POST /match/{id}/branch", handlers.BranchMatch)
	mux.HandleFunc("DELETE /match/{id}", handlers.DeleteMatch)

	return httptest.NewServer(mux), matches
}

func TestHandlers_Ping(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestHandlers_CreateMatch(t *testing.T) {
	t.Run("Creates a match of the default size", func(t *testing.T) {
		srv, _ := newTestServer()
		defer srv.Close()

		// When: posting an empty create request
		resp, err := http.Post(srv.URL+"/match", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		// Then: a fresh undecided match comes back
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var payload matchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "m1", payload.ID)
		assert.Equal(t, board.DefaultSize, payload.Size)
		assert.False(t, payload.Finished)
		assert.Nil(t, payload.Result)
		assert.Equal(t, "- - -\n- - -\n- - -", payload.BoardText)
	})

	t.Run("Rejects an invalid size", func(t *testing.T) {
		srv, _ := newTestServer()
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/match", "application/json", strings.NewReader(`{"size":0}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandlers_PlayMove(t *testing.T) {
	t.Run("Plays a move and reports the updated board", func(t *testing.T) {
		srv, matches := newTestServer()
		defer srv.Close()

		_, err := matches.CreateMatch(context.Background(), board.DefaultSize)
		require.NoError(t, err)

		// When: self plays (0,0)
		resp, err := http.Post(srv.URL+"/match/m1/move", "application/json", strings.NewReader(`{"player":0,"x":0,"y":0}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload matchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		require.Len(t, payload.Moves, 1)
		assert.Equal(t, "0 - -\n- - -\n- - -", payload.BoardText)
	})

	t.Run("Occupied cell maps to 400", func(t *testing.T) {
		srv, matches := newTestServer()
		defer srv.Close()

		_, err := matches.CreateMatch(context.Background(), board.DefaultSize)
		require.NoError(t, err)
		_, err = matches.PlayMove(context.Background(), "m1", board.Self, board.Move{X: 0, Y: 0})
		require.NoError(t, err)

		resp, err := http.Post(srv.URL+"/match/m1/move", "application/json", strings.NewReader(`{"player":1,"x":0,"y":0}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown player identity maps to 400", func(t *testing.T) {
		srv, matches := newTestServer()
		defer srv.Close()

		_, err := matches.CreateMatch(context.Background(), board.DefaultSize)
		require.NoError(t, err)

		resp, err := http.Post(srv.URL+"/match/m1/move", "application/json", strings.NewReader(`{"player":7,"x":0,"y":0}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Finished board maps to 409", func(t *testing.T) {
		srv, matches := newTestServer()
		defer srv.Close()

		// Given: a match self already won on row 0
		_, err := matches.CreateMatch(context.Background(), board.DefaultSize)
		require.NoError(t, err)

		ctx := context.Background()
		moves := []struct {
			player board.Player
			move   board.Move
		}{
			{board.Self, board.Move{X: 0, Y: 0}},
			{board.Opponent, board.Move{X: 1, Y: 1}},
			{board.Self, board.Move{X: 0, Y: 1}},
			{board.Opponent, board.Move{X: 2, Y: 2}},
			{board.Self, board.Move{X: 0, Y: 2}},
		}
		for _, m := range moves {
			_, err = matches.PlayMove(ctx, "m1", m.player, m.move)
			require.NoError(t, err)
		}

		resp, err := http.Post(srv.URL+"/match/m1/move", "application/json", strings.NewReader(`{"player":1,"x":1,"y":0}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Unknown match maps to 404", func(t *testing.T) {
		srv, _ := newTestServer()
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/match/missing/move", "application/json", strings.NewReader(`{"player":0,"x":0,"y":0}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHandlers_GetMatch(t *testing.T) {
	t.Run("Finished match includes its result", func(t *testing.T) {
		srv, matches := newTestServer()
		defer srv.Close()

		_, err := matches.CreateMatch(context.Background(), board.DefaultSize)
		require.NoError(t, err)

		ctx := context.Background()
		moves := []struct {
			player board.Player
			move   board.Move
		}{
			{board.Self, board.Move{X: 0, Y: 0}},
			{board.Opponent, board.Move{X: 1, Y: 1}},
			{board.Self, board.Move{X: 0, Y: 1}},
			{board.Opponent, board.Move{X: 2, Y: 2}},
			{board.Self, board.Move{X: 0, Y: 2}},
		}
		for _, m := range moves {
			_, err = matches.PlayMove(ctx, "m1", m.player, m.move)
			require.NoError(t, err)
		}

		resp, err := http.Get(srv.URL + "/match/m1")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload matchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.True(t, payload.Finished)
		require.NotNil(t, payload.Result)
		assert.Equal(t, int(board.ResultWin), *payload.Result)
	})
}

func TestHandlers_ReplayMatch(t *testing.T) {
	srv, matches := newTestServer()
	defer srv.Close()

	ctx := context.Background()
	_, err := matches.CreateMatch(ctx, board.DefaultSize)
	require.NoError(t, err)
	_, err = matches.PlayMove(ctx, "m1", board.Self, board.Move{X: 0, Y: 0})
	require.NoError(t, err)
	_, err = matches.PlayMove(ctx, "m1", board.Opponent, board.Move{X: 1, Y: 1})
	require.NoError(t, err)

	t.Run("Replays to the requested point", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/match/m1/replay?up_to=1")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload replayResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, 1, payload.MoveCount)
		assert.Equal(t, "0 - -\n- - -\n- - -", payload.BoardText)
	})

	t.Run("Missing up_to maps to 400", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/match/m1/replay")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandlers_BranchMatch(t *testing.T) {
	srv, matches := newTestServer()
	defer srv.Close()

	ctx := context.Background()
	_, err := matches.CreateMatch(ctx, board.DefaultSize)
	require.NoError(t, err)
	_, err = matches.PlayMove(ctx, "m1", board.Self, board.Move{X: 0, Y: 0})
	require.NoError(t, err)
	_, err = matches.PlayMove(ctx, "m1", board.Opponent, board.Move{X: 1, Y: 1})
	require.NoError(t, err)

	// When: branching after the first move
	resp, err := http.Post(srv.URL+"/match/m1/branch", "application/json", strings.NewReader(`{"up_to":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: the branch carries only the shared prefix
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload matchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "m2", payload.ID)
	assert.Len(t, payload.Moves, 1)
}

func TestHandlers_DeleteMatch(t *testing.T) {
	srv, matches := newTestServer()
	defer srv.Close()

	_, err := matches.CreateMatch(context.Background(), board.DefaultSize)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/match/m1", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/match/m1")
	require.NoError(t, err)
	defer getResp.Body.Close()

	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}
