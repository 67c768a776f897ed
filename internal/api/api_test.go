package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrolog-io/hydrolog/internal/auth"
	"github.com/hydrolog-io/hydrolog/internal/config"
	"github.com/hydrolog-io/hydrolog/internal/database"
	"github.com/hydrolog-io/hydrolog/internal/water"
)

// setupTestServer boots the full API against a fresh SQLite file
func setupTestServer(t *testing.T) *httptest.Server {
	return setupTestServerWithUploader(t, nil)
}

func setupTestServerWithUploader(t *testing.T, uploader Uploader) *httptest.Server {
	t.Helper()

	cfg := config.Config{APIPort: 8081}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "api_test.db")
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.TokenLifetimeHours = 1

	require.NoError(t, database.Init(&cfg))
	t.Cleanup(func() { database.Close() })

	tokens := auth.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenLifetimeHours)*time.Hour)
	ledger := water.NewEngine(database.NewRecordStore())

	apiInstance, err := NewApi(cfg, tokens, ledger, uploader)
	require.NoError(t, err)

	server := httptest.NewServer(apiInstance.Router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", url, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// registerUser registers a fresh account and returns its token
func registerUser(t *testing.T, server *httptest.Server, name, email string) string {
	t.Helper()

	resp := postJSON(t, server.URL+"/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestNewApi_RequiresPort(t *testing.T) {
	cfg := config.Config{APIPort: 0}
	_, err := NewApi(cfg, nil, nil, nil)
	assert.Error(t, err)
}

func TestHeartbeat(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/heartbeat")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t)
	registerUser(t, server, "Ava", "ava@x.com")

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, float64(1), body["userCount"])
	assert.NotEmpty(t, body["timestamp"])
}

// TestFullScenario walks the register → log → read → history flow
func TestFullScenario(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "Ava", "ava@x.com")

	// Log 3 full and 1 half bottle
	resp := postJSON(t, server.URL+"/water", token, map[string]int{
		"fullBottles": 3,
		"halfBottles": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updateBody struct {
		Message string `json:"message"`
		Record  struct {
			FullBottles  int     `json:"fullBottles"`
			HalfBottles  int     `json:"halfBottles"`
			TotalBottles float64 `json:"totalBottles"`
			TotalML      float64 `json:"totalML"`
		} `json:"record"`
	}
	decodeBody(t, resp, &updateBody)
	assert.NotEmpty(t, updateBody.Message)
	assert.Equal(t, 3.5, updateBody.Record.TotalBottles)
	assert.Equal(t, 1750.0, updateBody.Record.TotalML)

	// Read back today's totals
	resp = getJSON(t, server.URL+"/water", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var today map[string]float64
	decodeBody(t, resp, &today)
	assert.Equal(t, 3.0, today["fullBottles"])
	assert.Equal(t, 1.0, today["halfBottles"])
	assert.Equal(t, 3.5, today["totalBottles"])
	assert.Equal(t, 1750.0, today["totalML"])

	// History has exactly one entry, for today
	resp = getJSON(t, server.URL+"/water/history", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history []struct {
		Date         string  `json:"date"`
		TotalBottles float64 `json:"totalBottles"`
	}
	decodeBody(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, 3.5, history[0].TotalBottles)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), history[0].Date)
}

func TestProtectedRoutes_RejectMissingAndBadTokens(t *testing.T) {
	server := setupTestServer(t)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	expiredToken, err := expired.GenerateToken(testUserModel())
	require.NoError(t, err)

	foreign := auth.NewTokenManager("other-secret", time.Hour)
	foreignToken, err := foreign.GenerateToken(testUserModel())
	require.NoError(t, err)

	tokens := []struct {
		name  string
		token string
	}{
		{"Missing", ""},
		{"Garbage", "not-a-token"},
		{"Expired", expiredToken},
		{"WrongSecret", foreignToken},
	}
	paths := []string{"/water", "/water/history"}

	for _, tt := range tokens {
		for _, path := range paths {
			t.Run(fmt.Sprintf("%s_%s", tt.name, path), func(t *testing.T) {
				resp := getJSON(t, server.URL+path, tt.token)
				resp.Body.Close()
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})
		}
	}
}
