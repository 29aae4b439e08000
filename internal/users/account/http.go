// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidstream/internal/platform/constants"
	"github.com/taibuivan/vidstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidstream/internal/platform/request"
	"github.com/taibuivan/vidstream/internal/platform/respond"
	"github.com/taibuivan/vidstream/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the account lifecycle endpoints.
type Handler struct {
	accountService *Service
	stager         *requestutil.FileStager
}

// NewHandler constructs a new account [Handler]. Multipart files are staged
// through stager before reaching the service.
func NewHandler(service *Service, stager *requestutil.FileStager) *Handler {
	return &Handler{accountService: service, stager: stager}
}

// RegisterRoutes attaches the account endpoints to a router mounted at /api/v1/users.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/current-user", handler.currentUser)
		r.Post("/change-password", handler.changePassword)
		r.Patch("/update-account", handler.updateAccount)
		r.Patch("/avatar", handler.updateAvatar)
		r.Patch("/cover-image", handler.updateCoverImage)
	})
}

// # Request Payloads

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

/*
Register creates a new account.

POST /api/v1/users/register

Request:
  - multipart/form-data: fullName, email, username, password, avatar (file), coverImage (file, optional)

Response:
  - 201: The created account
  - 400: Missing fields, invalid email or missing avatar
  - 409: Username or email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	files, release, err := handler.stager.Stage(request, constants.FormFieldAvatar, constants.FormFieldCoverImage)
	defer release()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Register(request.Context(), RegisterInput{
		FullName:       request.FormValue(FieldFullName),
		Email:          request.FormValue(FieldEmail),
		Username:       request.FormValue(FieldUsername),
		Password:       request.FormValue(FieldPassword),
		AvatarPath:     files[constants.FormFieldAvatar],
		CoverImagePath: files[constants.FormFieldCoverImage],
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, MsgRegistered)
}

/*
CurrentUser returns the authenticated account.

GET /api/v1/users/current-user
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, MsgCurrentUser)
}

/*
ChangePassword replaces the caller's password.

POST /api/v1/users/change-password

Request:
  - Body: changePasswordRequest (oldPassword, newPassword)

Response:
  - 200: Empty object
  - 400: Blank fields
  - 401: Wrong old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{}, MsgPasswordChanged)
}

/*
UpdateAccount replaces the caller's full name and email.

PATCH /api/v1/users/update-account
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, MsgAccountUpdated)
}

// PATCH /api/v1/users/avatar (multipart field "avatar")
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.replaceAsset(writer, request, constants.FormFieldAvatar, handler.accountService.ReplaceAvatar, MsgAvatarUpdated)
}

// PATCH /api/v1/users/cover-image (multipart field "coverImage")
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.replaceAsset(writer, request, constants.FormFieldCoverImage, handler.accountService.ReplaceCoverImage, MsgCoverUpdated)
}

func (handler *Handler) replaceAsset(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	replace func(context.Context, string, string) (*auth.User, error),
	message string,
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	files, release, err := handler.stager.Stage(request, field)
	defer release()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := replace(request.Context(), userID, files[field])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, message)
}
