package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/listkeeper/listkeeper/internal/api"
	"github.com/listkeeper/listkeeper/internal/assistant"
	"github.com/listkeeper/listkeeper/internal/config"
	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/persist/memory"
	"github.com/listkeeper/listkeeper/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider answers every chat turn with a fixed response.
type stubProvider struct {
	resp *assistant.Response
	err  error
}

func (p *stubProvider) Name() string       { return "stub" }
func (p *stubProvider) IsConfigured() bool { return true }
func (p *stubProvider) Interpret(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	return p.resp, p.err
}

type testServer struct {
	*httptest.Server
	store    *store.Store
	pagePath string
}

func newTestServer(t *testing.T, provider assistant.Provider) *testServer {
	t.Helper()

	pagePath := filepath.Join(t.TempDir(), "shopping-list.html")
	require.NoError(t, os.WriteFile(pagePath, []byte("<html><body>shopping list</body></html>"), 0o644))

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 10 * time.Second
	cfg.Server.PagePath = pagePath
	cfg.Azure.Endpoint = "https://example.openai.azure.com"
	cfg.Azure.Deployment = "gpt-4o"
	cfg.Azure.Key = "test-key"

	st := store.New(context.Background(), memory.New(), zerolog.Nop())

	router := assistant.NewRouter("stub")
	if provider != nil {
		router.RegisterProvider(provider)
	}
	med := assistant.NewMediator(st, router, zerolog.Nop())

	srv := httptest.NewServer(api.NewRouter(cfg, st, med))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: st, pagePath: pagePath}
}

// envelope mirrors the standard response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if json.Valid(raw) {
			require.NoError(t, json.Unmarshal(raw, &env))
		}
	}
	return resp, env
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, env := ts.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestClientConfigEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var cfg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "https://example.openai.azure.com", cfg["azureEndpoint"])
	assert.Equal(t, "gpt-4o", cfg["azureDeployment"])
	assert.Equal(t, "test-key", cfg["azureKey"])
	assert.Equal(t, "2024-08-01-preview", cfg["azureApiVersion"], "api version falls back to the default")
}

func TestPageEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/", "/shopping-list"} {
		resp, err := ts.Client().Get(ts.URL + path)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "text/html", resp.Header.Get("Content-Type"), path)
		assert.Contains(t, string(body), "shopping list", path)
	}
}

func TestPageReadFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	// Router reads the document per request, so removing it breaks serving.
	require.NoError(t, os.Remove(ts.pagePath))

	resp, err := ts.Client().Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error loading page", string(body))
}

func TestNotFoundFallback(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/no/such/path")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", string(body))
}

func TestStateEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("empty state", func(t *testing.T) {
		resp, env := ts.do(t, http.MethodGet, "/api/v1/state", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, env.Success)

		var state struct {
			Lists      []any  `json:"lists"`
			EmptyState string `json:"empty_state"`
			TotalItems int    `json:"total_items"`
			Degraded   bool   `json:"degraded"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &state))
		assert.Empty(t, state.Lists)
		assert.Equal(t, "no_lists", state.EmptyState)
		assert.Zero(t, state.TotalItems)
		assert.False(t, state.Degraded)
	})

	t.Run("active list with no items", func(t *testing.T) {
		_, err := ts.store.CreateList(context.Background(), "Groceries")
		require.NoError(t, err)

		_, env := ts.do(t, http.MethodGet, "/api/v1/state", nil)
		var state struct {
			EmptyState string               `json:"empty_state"`
			ActiveList *domain.ShoppingList `json:"active_list"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &state))
		assert.Equal(t, "empty_list", state.EmptyState)
		require.NotNil(t, state.ActiveList)
		assert.Equal(t, "Groceries", state.ActiveList.Name)
	})
}

func TestListLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, env := ts.do(t, http.MethodPost, "/api/v1/lists", map[string]string{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var list domain.ShoppingList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, "Groceries", list.Name)

	base := "/api/v1/lists/" + list.ID.String()

	resp, env = ts.do(t, http.MethodPost, base+"/items", map[string]any{"text": "milk", "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.Items[0].ID)
	require.NotNil(t, list.Items[0].Quantity)
	assert.Equal(t, 2, *list.Items[0].Quantity)

	resp, env = ts.do(t, http.MethodPost, base+"/items/1/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.True(t, list.Items[0].Done)

	resp, env = ts.do(t, http.MethodPatch, base, map[string]string{"name": "Weekend shop"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, "Weekend shop", list.Name)

	resp, env = ts.do(t, http.MethodDelete, base+"/items/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Items)

	resp, _ = ts.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestListErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("invalid id", func(t *testing.T) {
		resp, env := ts.do(t, http.MethodDelete, "/api/v1/lists/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.False(t, env.Success)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodDelete, "/api/v1/lists/4d3a1f9d-9f6e-4f0c-9b3d-2c7a1e5b8f00", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodPost, "/api/v1/lists", map[string]string{"name": ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/lists", bytes.NewBufferString("{"))
		require.NoError(t, err)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSessionEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, env := ts.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sess domain.ChatSession
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	assert.Equal(t, "Chat 1", sess.Name)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, domain.WelcomeMessage, sess.Messages[0].Text)

	resp, env = ts.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var second domain.ChatSession
	require.NoError(t, json.Unmarshal(env.Data, &second))

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID.String()+"/activate", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	active, ok := ts.store.ActiveSession()
	require.True(t, ok)
	assert.Equal(t, sess.ID, active.ID)

	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/sessions/"+second.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestChatEndpoint(t *testing.T) {
	provider := &stubProvider{resp: &assistant.Response{
		Reply: "Added milk.",
		Intent: &domain.Intent{
			CreateList: "Groceries",
			Ops:        []domain.IntentOp{{Action: domain.IntentAdd, Item: "milk"}},
		},
	}}
	ts := newTestServer(t, provider)

	// No session_id: the handler falls back to (and creates) the active session.
	resp, env := ts.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": "add milk to a groceries list"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var result struct {
		Reply   string               `json:"reply"`
		List    *domain.ShoppingList `json:"list"`
		Applied bool                 `json:"applied"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "Added milk.", result.Reply)
	assert.True(t, result.Applied)
	require.NotNil(t, result.List)
	assert.Equal(t, "Groceries", result.List.Name)
	require.Len(t, result.List.Items, 1)

	t.Run("blank message rejected", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid session id", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hi", "session_id": "nope"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
