package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"engagePulse/business/adtrack"
	"engagePulse/business/reactions"
	memoryRepo "engagePulse/internal/repository/memory"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data"`
	Error     string         `json:"error"`
	Timestamp string         `json:"timestamp"`
}

func invoke(t *testing.T, h echo.HandlerFunc, method, target, body, identity string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.Set("identity", identity)
	require.NoError(t, h(c))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestReactionEndpoints(t *testing.T) {
	h := NewReactionsHandler(reactions.NewService(memoryRepo.NewKVRepository()))

	code, env := invoke(t, h.UpdateReaction, http.MethodPost, "/api/v1/reactions",
		`{"postId":42,"reaction":"like"}`, "u1")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Timestamp)
	assert.Empty(t, env.Error)

	counts := env.Data["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["like"])
	assert.Equal(t, float64(1), env.Data["total"])
	assert.Equal(t, "like", env.Data["callerReaction"])

	// another identity sees the count but no caller reaction
	code, env = invoke(t, h.GetReactions, http.MethodGet, "/api/v1/reactions?postId=42", "", "u2")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), env.Data["counts"].(map[string]any)["like"])
	assert.Nil(t, env.Data["callerReaction"])

	top := env.Data["topReaction"].(map[string]any)
	assert.Equal(t, "like", top["kind"])
}

func TestUpdateReaction_UnknownKindIs400(t *testing.T) {
	h := NewReactionsHandler(reactions.NewService(memoryRepo.NewKVRepository()))

	code, env := invoke(t, h.UpdateReaction, http.MethodPost, "/api/v1/reactions",
		`{"postId":42,"reaction":"angry"}`, "u1")
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
	assert.NotEmpty(t, env.Timestamp)

	code, env = invoke(t, h.GetReactions, http.MethodGet, "/api/v1/reactions?postId=42", "", "u1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), env.Data["total"], "rejected update must not count")
}

func TestGetReactions_MissingPostIDIs400(t *testing.T) {
	h := NewReactionsHandler(reactions.NewService(memoryRepo.NewKVRepository()))

	code, env := invoke(t, h.GetReactions, http.MethodGet, "/api/v1/reactions", "", "u1")
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestAdAnalyticsEndpoints(t *testing.T) {
	h := NewAdAnalyticsHandler(adtrack.NewService(memoryRepo.NewKVRepository()))

	post := func(body string) (int, envelope) {
		return invoke(t, h.RecordEvent, http.MethodPost, "/api/v1/ad-analytics", body, "u1")
	}

	code, _ := post(`{"adId":"sidebar-top","trackingId":"t-1","event":"impression","metadata":{"userId":"u1","sessionId":"s1"}}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = post(`{"adId":"sidebar-top","trackingId":"t-2","event":"impression","metadata":{"userId":"u2","sessionId":"s1"}}`)
	require.Equal(t, http.StatusOK, code)
	code, env := post(`{"adId":"sidebar-top","trackingId":"t-3","event":"click"}`)
	require.Equal(t, http.StatusOK, code)

	assert.True(t, env.Success)
	assert.Equal(t, "50.00", env.Data["ctr"])
	assert.Equal(t, "0.00", env.Data["viewRate"])
	assert.Equal(t, float64(2), env.Data["uniqueUsers"])
	assert.Equal(t, float64(1), env.Data["uniqueSessions"])

	code, env = invoke(t, h.GetMetrics, http.MethodGet, "/api/v1/ad-analytics?adId=sidebar-top", "", "u1")
	require.Equal(t, http.StatusOK, code)
	counts := env.Data["counts"].(map[string]any)
	assert.Equal(t, float64(2), counts["impression"])
	assert.Equal(t, float64(1), counts["click"])
	assert.Len(t, env.Data["recentEvents"].([]any), 3)
}

func TestRecordAdEvent_ValidationIs400(t *testing.T) {
	h := NewAdAnalyticsHandler(adtrack.NewService(memoryRepo.NewKVRepository()))

	code, env := invoke(t, h.RecordEvent, http.MethodPost, "/api/v1/ad-analytics",
		`{"trackingId":"t-1","event":"click"}`, "u1")
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, env = invoke(t, h.RecordEvent, http.MethodPost, "/api/v1/ad-analytics",
		`{"adId":"sidebar-top","event":"hover"}`, "u1")
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, env = invoke(t, h.GetMetrics, http.MethodGet, "/api/v1/ad-analytics", "", "u1")
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}
