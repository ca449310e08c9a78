package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cambio/internal/engine"
	"cambio/internal/hub"
	"cambio/internal/session"
	"cambio/pkg/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := hub.New(context.Background(), zap.NewNop())
	srv := httptest.NewServer(SetupRoutes(h, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func createGame(t *testing.T, srv *httptest.Server, query string) types.CreateGameResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/games"+query, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out types.CreateGameResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateGame(t *testing.T) {
	srv := newTestServer(t)

	out := createGame(t, srv, "?num_players=3")
	assert.Equal(t, engine.StatusLobby, out.Status)
	_, err := uuid.Parse(out.GameID)
	assert.NoError(t, err)
}

func TestCreateGame_BadPlayerCount(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{"?num_players=0", "?num_players=14", "?num_players=abc"} {
		resp, err := http.Post(srv.URL+"/games"+q, "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %s", q)
	}
}

func TestStartGame(t *testing.T) {
	srv := newTestServer(t)
	out := createGame(t, srv, "?num_players=2")

	resp, err := http.Post(srv.URL+"/games/"+out.GameID+"/start", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res session.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Success)
	require.NotNil(t, res.State)
	assert.Equal(t, engine.StatusPlaying, res.State.Status)
	assert.Equal(t, "player_0", res.State.CurrentTurnPlayerID)
	require.Len(t, res.State.Players, 2)
	assert.True(t, res.State.Players[0].IsActive)
}

func TestStartGame_TwiceConflicts(t *testing.T) {
	srv := newTestServer(t)
	out := createGame(t, srv, "")

	resp, err := http.Post(srv.URL+"/games/"+out.GameID+"/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/games/"+out.GameID+"/start", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var res session.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Nil(t, res.State)
}

func TestStartGame_UnknownGame(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/games/"+uuid.NewString()+"/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteGame(t *testing.T) {
	srv := newTestServer(t)
	out := createGame(t, srv, "")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/games/"+out.GameID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Gone now: a second delete and a start both 404.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/games/"+out.GameID+"/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWS_UnknownGameRejected(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ws/" + uuid.NewString() + "/player_0")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
