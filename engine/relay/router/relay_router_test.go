package relayrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/pkg/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	result *relay.Result
	err    error
}

func (s *stubRunner) Run(context.Context) (*relay.Result, error) {
	return s.result, s.err
}

func setupRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, h)
	return r
}

func okResult() *relay.Result {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &relay.Result{
		Status: relay.StatusOK,
		Token:  "tok-1234567890123",
		TokenFetch: &relay.Execution{
			Command:    "curl token",
			Stdout:     `{"last_active_token":{"jwt":"tok-1234567890123"}}`,
			ExecutedAt: at,
		},
		SessionStart: &relay.Execution{
			Command:    "curl start",
			Stdout:     "session up",
			ExecutedAt: at.Add(time.Second),
		},
		LogPath: "logs/startserver-20250601T120000.000000000Z.log",
	}
}

func postTrigger(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trigger", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTrigger(t *testing.T) {
	t.Run("Should run the workflow and return the contract payload", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{result: okResult()}, false))
		w := postTrigger(r, `{"call":"startserver"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp apitypes.TriggerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "startserver", resp.Call)
		assert.Equal(t, "tok-12***890123", resp.TokenPreview)
		assert.Nil(t, resp.Token)
		assert.Equal(t, "logs/startserver-20250601T120000.000000000Z.log", resp.LogPath)
		require.NotNil(t, resp.Initsend)
		assert.Equal(t, 0, resp.Initsend.ReturnCode)
		require.NotNil(t, resp.Startserver)
		assert.Equal(t, "session up", resp.Startserver.Stdout)
	})

	t.Run("Should never leak the raw token in the default response", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{result: okResult()}, false))
		w := postTrigger(r, `{"call":"startserver"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Nil(t, raw["token"])
	})

	t.Run("Should expose the full token only when opted in", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{result: okResult()}, true))
		w := postTrigger(r, `{"call":"startserver"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp apitypes.TriggerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Token)
		assert.Equal(t, "tok-1234567890123", *resp.Token)
		assert.Equal(t, "tok-12***890123", resp.TokenPreview)
	})

	t.Run("Should accept the call case-insensitively", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{result: okResult()}, false))
		w := postTrigger(r, `{"call":"StartServer"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should reject an unknown call without running the workflow", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("must not be called")}
		r := setupRouter(NewHandlers(runner, false))
		w := postTrigger(r, `{"call":"restart"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp struct {
			Status int `json:"status"`
			Error  struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
		assert.Equal(t, "call must be 'startserver'", resp.Error.Message)
	})

	t.Run("Should reject a malformed body", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{result: okResult()}, false))
		w := postTrigger(r, `{"call"`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should answer 200 with error status for workflow failures", func(t *testing.T) {
		result := &relay.Result{
			Status:     relay.StatusError,
			TokenFetch: &relay.Execution{Command: "curl token", ExitCode: 1, Stderr: "timeout"},
			LogPath:    "logs/startserver-short.log",
		}
		r := setupRouter(NewHandlers(&stubRunner{result: result}, false))
		w := postTrigger(r, `{"call":"startserver"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp apitypes.TriggerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Empty(t, resp.TokenPreview)
		assert.Nil(t, resp.Startserver)
		require.NotNil(t, resp.Initsend)
		assert.Equal(t, 1, resp.Initsend.ReturnCode)
	})

	t.Run("Should answer 500 when the workflow cannot start", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("failed to load request templates: open initsend.txt")}
		r := setupRouter(NewHandlers(runner, false))
		w := postTrigger(r, `{"call":"startserver"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	})
}

func TestStaticRoutes(t *testing.T) {
	t.Run("Should serve usage instructions at the root", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{}, false))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp apitypes.RootResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Send POST /trigger with {'call': 'startserver'} to run the workflow.", resp.Message)
		assert.Equal(t, "/healthz", resp.Health)
	})

	t.Run("Should answer the liveness probe", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{}, false))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("Should report version info", func(t *testing.T) {
		r := setupRouter(NewHandlers(&stubRunner{}, false))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp, "version")
	})
}
