// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/constants"
	"github.com/taibuivan/vidstream/internal/platform/ctxutil"
	"github.com/taibuivan/vidstream/internal/platform/respond"
	"github.com/taibuivan/vidstream/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// Declaring it here keeps the middleware independent of the session service,
// which satisfies it with VerifyAccessToken.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the access token of the caller.
//
// A missing, malformed or unverifiable token leaves the request anonymous.
// Rejection is left to [RequireAuth], so public routes such as login and
// refresh stay reachable while a stale access credential is still presented.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to the accessToken cookie.
//  2. If neither is usable, the request proceeds as anonymous.
//  3. Verify the token via [TokenVerifier]; failure proceeds as anonymous.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Token lookup
			token, err := bearerToken(request)
			if err != nil {
				ctxutil.GetLogger(request.Context()).Debug("access_token_ignored", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Anonymous access
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Token verification
			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).Debug("access_token_ignored", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			// 4. Context injection
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate]. It is the only place
// an absent or rejected access token turns into a 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// bearerToken returns the presented access token or "" when none was sent.
func bearerToken(request *http.Request) (string, error) {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return "", apperr.Unauthorized("Invalid authorization format")
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := request.Cookie(constants.AccessTokenCookieName)
	if err != nil {
		return "", nil
	}

	return cookie.Value, nil
}
