// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/constants"
	"github.com/taibuivan/vidstream/internal/platform/ctxutil"
	"github.com/taibuivan/vidstream/internal/platform/middleware"
	"github.com/taibuivan/vidstream/internal/platform/sec"
)

type stubVerifier struct {
	valid string
}

func (verifier stubVerifier) VerifyAccessToken(token string) (*sec.AuthClaims, error) {
	if token != verifier.valid {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	return &sec.AuthClaims{UserID: "user-1", Username: "alice", Kind: sec.KindAccess}, nil
}

// whoami echoes the authenticated user ID, or "anonymous".
var whoami = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	userID := ctxutil.GetUserID(request.Context())
	if userID == "" {
		userID = "anonymous"
	}
	_, _ = io.WriteString(writer, userID)
})

/*
TestAuthenticate_TokenSources verifies header, cookie and anonymous resolution.
Unusable tokens never abort the request; they resolve to anonymous.
*/
func TestAuthenticate_TokenSources(t *testing.T) {
	handler := middleware.Authenticate(stubVerifier{valid: "good"})(whoami)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", "", http.StatusOK, "anonymous"},
		{"bearer header", "Bearer good", "", http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer good", "", http.StatusOK, "user-1"},
		{"cookie", "", "good", http.StatusOK, "user-1"},
		{"header wins over cookie", "Bearer good", "stale", http.StatusOK, "user-1"},
		{"bad scheme", "Basic good", "", http.StatusOK, "anonymous"},
		{"invalid header token", "Bearer nope", "", http.StatusOK, "anonymous"},
		{"invalid cookie token", "", "nope", http.StatusOK, "anonymous"},
		{"invalid header with valid cookie", "Bearer nope", "good", http.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: tt.cookie})
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantBody, recorder.Body.String())
		})
	}
}

/*
TestRequireAuth verifies that anonymous requests are rejected with 401.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.Authenticate(stubVerifier{valid: "good"})(middleware.RequireAuth(whoami))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer good")
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "expired"})
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)
}

/*
TestRequestID verifies that a request ID is generated or propagated.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}

/*
TestRateLimiter verifies that a client over its burst receives 429 while others pass.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 0.001, 2).Handler(whoami)

	send := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

/*
TestPanicRecovery verifies that a panicking handler yields the error envelope.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

type originConfig string

func (origin originConfig) AllowedOrigin() string { return string(origin) }

/*
TestCORS verifies origin matching and preflight handling.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(originConfig("https://app.vidstream.dev"))(whoami)

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/users/login", nil)
	request.Header.Set(constants.HeaderOrigin, "https://app.vidstream.dev")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://app.vidstream.dev", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	request = httptest.NewRequest(http.MethodGet, "/api/v1/users/login", nil)
	request.Header.Set(constants.HeaderOrigin, "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestMetrics_RoutePattern verifies that observations are labelled by route pattern.
*/
func TestMetrics_RoutePattern(t *testing.T) {
	metrics := middleware.NewMetrics()

	router := chi.NewRouter()
	router.Use(metrics.Instrument)
	router.Get("/api/v1/users/c/{username}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", metrics.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/c/alice", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/c/bob", nil))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.True(t, strings.Contains(body,
		`http_requests_total{method="GET",route="/api/v1/users/c/{username}",status="404"} 2`), body)
	assert.NotContains(t, body, "alice")
}
