package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcarehq/mindcare/internal/users"
)

func newTestRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Inject a fixed authenticated user in place of the session middleware.
	r.Use(func(c *gin.Context) {
		c.Set(users.ContextKeyUser, &users.User{ID: "usr_1", Name: "Asha"})
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(r.Group("/v1"))
	return r
}

func TestPostMessage(t *testing.T) {
	f := newFixture(Options{})
	r := newTestRouter(t, f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"I feel anxious"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reply":"I hear you."`)
}

func TestPostMessageValidation(t *testing.T) {
	f := newFixture(Options{})
	r := newTestRouter(t, f)

	tests := []struct {
		name string
		body string
	}{
		{"no body", `{}`},
		{"blank message", `{"message":"   "}`},
		{"not json", `message=hi`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "invalid_request")
		})
	}
}

func TestPostMessageUpstreamDown(t *testing.T) {
	f := newFixture(Options{Replies: &replyStub{err: context.DeadlineExceeded}})
	r := newTestRouter(t, f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service_unavailable")
}

func TestGetHistoryPagination(t *testing.T) {
	f := newFixture(Options{})
	r := newTestRouter(t, f)

	// Three turns produce six stored messages.
	for _, msg := range []string{"one", "two", "three"} {
		_, err := f.svc.HandleTurn(context.Background(), "usr_1", msg, nil)
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/chat/history?limit=4", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"nextCursor"`)
	// Newest first: the latest reply comes before older messages.
	assert.Less(t, strings.Index(body, `"three"`), strings.Index(body, `"two"`))
	assert.NotContains(t, body, `"one"`)
}

func TestGetHistoryBadParams(t *testing.T) {
	f := newFixture(Options{})
	r := newTestRouter(t, f)

	for _, url := range []string{
		"/v1/chat/history?limit=0",
		"/v1/chat/history?limit=9999",
		"/v1/chat/history?limit=abc",
		"/v1/chat/history?cursor=not-a-cursor!",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}
