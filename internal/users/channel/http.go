// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidstream/internal/platform/request"
	"github.com/taibuivan/vidstream/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the channel endpoints.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new channel [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// RegisterRoutes attaches the channel endpoints to a router mounted at /api/v1/users.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/c/{username}", handler.channelProfile)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/history", handler.watchHistory)
	})
}

/*
ChannelProfile returns a channel with its subscription statistics.

GET /api/v1/users/c/{username}

Response:
  - 200: ChannelProfile (isSubscribed reflects the caller when authenticated)
  - 404: Unknown username
*/
func (handler *Handler) channelProfile(writer http.ResponseWriter, request *http.Request) {
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := handler.channelService.GetChannelProfile(request.Context(), requestutil.Param(request, "username"), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, MsgChannelFetched)
}

// GET /api/v1/users/history
func (handler *Handler) watchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.channelService.GetWatchHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items, MsgHistoryFetched)
}
