package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickpersak/idle-rpg/internal/auth"
	"github.com/rickpersak/idle-rpg/internal/content"
	"github.com/rickpersak/idle-rpg/internal/game"
	"github.com/rickpersak/idle-rpg/internal/save"
	"github.com/rickpersak/idle-rpg/internal/session"
	"github.com/rickpersak/idle-rpg/internal/settings"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	logger := log.New(io.Discard, "", 0)

	authRepo, err := auth.NewFileRepo(t.TempDir())
	require.NoError(t, err)
	authSvc := auth.NewService(authRepo, logger)

	settingsRepo, err := settings.NewFileRepo(t.TempDir())
	require.NoError(t, err)

	cnt, err := content.Default()
	require.NoError(t, err)

	clock := game.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	broker := session.NewBroker()
	manager := session.NewManager(session.Options{
		Clock:    clock,
		Content:  cnt,
		Saves:    save.NewMemoryRepo(clock),
		Settings: settingsRepo,
		Broker:   broker,
		Logger:   logger,
		// keep the background loops quiet during tests
		TickEvery:     time.Hour,
		AutosaveEvery: time.Hour,
	})
	t.Cleanup(manager.StopAll)

	ts := httptest.NewServer(NewHandler(Options{
		Logger:   logger,
		Auth:     authSvc,
		Sessions: manager,
		Broker:   broker,
		Settings: settingsRepo,
	}))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthEndpoints(t *testing.T) {
	ts, client := newTestServer(t)

	resp, body := doJSON(t, client, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ok"`, string(body["status"]))

	resp, body = doJSON(t, client, http.MethodGet, ts.URL+"/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ready"`, string(body["status"]))
}

func TestGameRoutesRequireAuth(t *testing.T) {
	ts, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/game/state", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnonymousSignInAndPlay(t *testing.T) {
	ts, client := newTestServer(t)

	resp, body := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "true", string(body["created"]))

	// signing in again keeps the identity
	resp, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "false", string(body["created"]))

	// before a game starts the state view is the menu
	resp, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/game/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "false", string(body["inSession"]))

	resp, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/new", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "true", string(body["inSession"]))
	assert.JSONEq(t, "25", string(body["inventoryCapacity"]))

	// the initial autosave is visible in the save directory
	resp, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/saves", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var slots map[string]save.Snapshot
	require.NoError(t, json.Unmarshal(body["slots"], &slots))
	assert.Contains(t, slots, save.DefaultSlotKey)

	// commands round-trip through the controller
	resp, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/task",
		map[string]any{"professionId": "mining", "taskIndex": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view session.StateView
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &view))
	require.NotNil(t, view.Professions[0].ActiveTaskIndex)
	assert.Equal(t, 0, *view.Professions[0].ActiveTaskIndex)

	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/save",
		map[string]any{"name": "Test Run"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/load",
		map[string]any{"slot": "test-rum"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `"test-run"`, string(body["suggestion"]))
}

func TestSaveValidation(t *testing.T) {
	ts, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// saving before starting a game conflicts
	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/save",
		map[string]any{"name": "x"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/new", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/game/save",
		map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsRoundTrip(t *testing.T) {
	ts, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, client, http.MethodGet, ts.URL+"/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "70", string(body["musicVolume"]))

	resp, body = doJSON(t, client, http.MethodPut, ts.URL+"/api/settings",
		map[string]any{"musicVolume": 15, "showNotifications": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "15", string(body["musicVolume"]))
	assert.JSONEq(t, "80", string(body["effectsVolume"]))
	assert.JSONEq(t, "false", string(body["showNotifications"]))
}

func TestLogoutRevokesSession(t *testing.T) {
	ts, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/game/state", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOpenAPISpecServes(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.Get(ts.URL + "/openapi.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var spec map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&spec))
	assert.Contains(t, spec, "paths")
}
