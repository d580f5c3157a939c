package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/patientdesk/internal/config"
	"github.com/ehr/patientdesk/internal/domain/patient"
	"github.com/ehr/patientdesk/internal/platform/middleware"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Port:           "5000",
		Env:            "test",
		StoreDriver:    driver,
		DBName:         "patientsdb",
		DBSchema:       "public",
		CollectionName: "patients",
		AutoMigrate:    true,
		CORSOrigins:    []string{"*"},
		BodyLimit:      "1K",
	}
}

func newTestEcho(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	st, err := openStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return newServer(cfg, zerolog.Nop(), st)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	h := newTestEcho(t, testConfig(config.DriverMemory))

	rec := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(h, http.MethodGet, "/health/db", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.DriverMemory, body["store"])
	assert.NotContains(t, body, "pool")
}

func TestServer_PatientLifecycle(t *testing.T) {
	h := newTestEcho(t, testConfig(config.DriverMemory))

	rec := do(h, http.MethodPost, "/patients", `{"name":"Ann","age":30,"condition":"Flu"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created patient.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(h, http.MethodGet, "/patients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []patient.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = do(h, http.MethodDelete, "/patients/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(h, http.MethodDelete, "/patients/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Patient not found"}`, rec.Body.String())
}

func TestServer_UnknownRoute(t *testing.T) {
	h := newTestEcho(t, testConfig(config.DriverMemory))

	rec := do(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body middleware.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestServer_BodyLimit(t *testing.T) {
	h := newTestEcho(t, testConfig(config.DriverMemory))

	big := `{"name":"` + strings.Repeat("a", 2048) + `","age":1,"condition":"x"}`
	rec := do(h, http.MethodPost, "/patients", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(h, http.MethodGet, "/patients", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_CORSPreflight(t *testing.T) {
	h := newTestEcho(t, testConfig(config.DriverMemory))

	req := httptest.NewRequest(http.MethodOptions, "/patients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)
	cfg.SQLiteDir = t.TempDir()

	h := newTestEcho(t, cfg)

	rec := do(h, http.MethodPost, "/patients", `{"name":"Ann","age":30,"condition":"Flu"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(h, http.MethodGet, "/health/db", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.FileExists(t, filepath.Join(cfg.SQLiteDir, "patientsdb.db"))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), testConfig("mongo"), zerolog.Nop())
	assert.Error(t, err)
}

func TestSqlitePath(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)
	cfg.SQLiteDir = "/var/lib/patients"
	cfg.DBName = "clinic"
	assert.Equal(t, filepath.Join("/var/lib/patients", "clinic.db"), sqlitePath(cfg))
}

func TestNewLogger_FollowsConfigEnv(t *testing.T) {
	t.Setenv("ENV", "")
	os.Unsetenv("ENV")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.IsDev())

	var buf bytes.Buffer
	logger := newLogger(cfg.IsDev(), &buf)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "development logs should be console formatted")

	buf.Reset()
	jsonLogger := newLogger(false, &buf)
	jsonLogger.Info().Str("k", "v").Msg("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "non-development logs should be JSON")
}
