package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/progress"
	"github.com/lexharvest/lexharvest/internal/progress/sinks"
)

func newTestServer(t *testing.T) (*Server, *sinks.StoreSink) {
	t.Helper()
	status := sinks.NewStoreSink()
	return New("127.0.0.1:0", status, zap.NewNop()), status
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := doRequest(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := doRequest(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServer_Status(t *testing.T) {
	t.Parallel()
	s, status := newTestServer(t)
	require.NoError(t, status.Consume(context.Background(), []progress.Event{
		{RunID: uuid.New(), TS: time.Now().UTC(), Letter: "A", Message: "https://browse.test/1"},
		{RunID: uuid.New(), TS: time.Now().UTC(), Letter: "B", Message: progress.DoneMessage},
	}))

	rec := doRequest(t, s, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Letters map[string]string `json:"letters"`
		Done    int               `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "https://browse.test/1", payload.Letters["A"])
	require.Equal(t, 1, payload.Done)
}
