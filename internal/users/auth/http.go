// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidstream/internal/platform/constants"
	"github.com/taibuivan/vidstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidstream/internal/platform/request"
	"github.com/taibuivan/vidstream/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the session endpoints (login, refresh-token, logout).
//
// It owns the session cookies: both tokens are set on login and rotation and
// cleared on logout.
type Handler struct {
	authService *Service
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewHandler constructs a new [Handler]. The TTLs bound the cookie lifetimes and
// should match the token lifetimes.
func NewHandler(service *Service, accessTTL, refreshTTL time.Duration) *Handler {
	return &Handler{authService: service, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// RegisterRoutes attaches the session endpoints to a router mounted at /api/v1/users.
//
// # Endpoints
//   - POST /login         : Authenticates and sets both cookies.
//   - POST /refresh-token : Rotates the session pair.
//   - POST /logout        : Clears the session (requires auth).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
Login authenticates an account and establishes its session.

POST /api/v1/users/login

Request:
  - Body: loginRequest (Username or Email, Password)

Response:
  - 200: {user, accessToken, refreshToken} plus both session cookies
  - 400: Neither username nor email supplied
  - 401: Unknown account or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		"user":         session.User,
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	}, MsgLoggedIn)
}

/*
Refresh rotates the session pair.

POST /api/v1/users/refresh-token

Description: The refresh token is read from the refreshToken cookie, falling
back to the JSON body for clients that cannot hold cookies.

Response:
  - 200: {accessToken, refreshToken} plus both session cookies
  - 401: Missing, invalid, replayed or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	presented := ""
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		presented = cookie.Value
	}

	if presented == "" && request.ContentLength != 0 {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			presented = input.RefreshToken
		}
	}

	session, err := handler.authService.Refresh(request.Context(), presented)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	}, MsgAccessTokenRefreshed)
}

/*
Logout terminates the caller's session.

POST /api/v1/users/logout

Response:
  - 200: Empty object, both cookies cleared
  - 401: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearCookie(writer, constants.AccessTokenCookieName)
	clearCookie(writer, constants.RefreshTokenCookieName)

	respond.OK(writer, map[string]any{}, MsgLoggedOut)
}

// # Cookie Helpers

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *LoginSession) {
	setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, handler.accessTTL)
	setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, handler.refreshTTL)
}

func setCookie(writer http.ResponseWriter, name, value string, timeToLive time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(timeToLive / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
