package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trade-gate/internal/config"
	"trade-gate/internal/ledger"
	"trade-gate/internal/middleware"
	"trade-gate/internal/quota"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubLedger struct {
	stats []ledger.StatRow
}

func (s *stubLedger) Append(context.Context, []string) error               { return nil }
func (s *stubLedger) Rows(context.Context) ([][]string, error)             { return nil, nil }
func (s *stubLedger) WriteSummary(context.Context, []ledger.StatRow) error { return nil }
func (s *stubLedger) Summary(context.Context) ([]ledger.StatRow, error)    { return s.stats, nil }
func (s *stubLedger) Close() error                                         { return nil }

type stubLister struct{ users []int64 }

func (s *stubLister) ActiveUsers() []int64 { return s.users }

func testRouter(t *testing.T) (*gin.Engine, *quota.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := config.AdminConfig{Username: "ops", PasswordHash: string(hash), JWTSecret: "test-secret"}

	tracker := quota.NewTracker(3, time.UTC)
	tracker.Commit(77)

	h := NewAdminHandler(admin,
		&stubLedger{stats: []ledger.StatRow{{Code: "1", Count: 4}, {Code: "3", Count: 1}}},
		&stubLister{users: []int64{10, 20}},
		tracker,
	)

	r := gin.New()
	r.GET("/health", h.Health)
	r.POST("/api/login", h.Login)
	api := r.Group("/api", middleware.JWTAuth([]byte(admin.JWTSecret)))
	api.GET("/stats/mistakes", h.MistakeStats)
	api.GET("/sessions/active", h.ActiveSessions)
	api.GET("/quota/:user", h.Quota)
	return r, tracker
}

func login(t *testing.T, r *gin.Engine, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": user, "password": pass})
	req := httptest.NewRequest("POST", "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := login(t, r, "ops", "secret")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := testRouter(t)
	assert.Equal(t, http.StatusUnauthorized, login(t, r, "ops", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, login(t, r, "nobody", "secret").Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats/mistakes", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMistakeStatsEndpoint(t *testing.T) {
	r, _ := testRouter(t)
	tok := token(t, r)

	req := httptest.NewRequest("GET", "/api/stats/mistakes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var items []struct {
		Code  string `json:"code"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].Code)
	assert.Equal(t, 4, items[0].Count)
}

func TestActiveSessionsEndpoint(t *testing.T) {
	r, _ := testRouter(t)
	tok := token(t, r)

	req := httptest.NewRequest("GET", "/api/sessions/active", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int     `json:"count"`
		Users []int64 `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.ElementsMatch(t, []int64{10, 20}, resp.Users)
}

func TestQuotaEndpoint(t *testing.T) {
	r, _ := testRouter(t)
	tok := token(t, r)

	req := httptest.NewRequest("GET", "/api/quota/77", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		UsedToday int `json:"used_today"`
		MaxPerDay int `json:"max_per_day"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.UsedToday)
	assert.Equal(t, 3, resp.MaxPerDay)

	req = httptest.NewRequest("GET", "/api/quota/not-a-number", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
