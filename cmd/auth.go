package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/core"
	"github.com/siahsang/forum/internal/validator"
)

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func newUserResponse(user *auth.User) userResponse {
	return userResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestFromDecode(w, r, err)
		return
	}

	user := &auth.User{
		Username: strings.TrimSpace(input.Username),
		Email:    core.NormalizeEmail(input.Email),
	}

	v := validator.New()
	core.ValidateRegistration(v, user.Username, user.Email, input.Password)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := user.SetPassword(input.Password, app.config.bcryptCost); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.CreateUser(r.Context(), user); err != nil {
		var duplicateErr *core.DuplicateError
		switch {
		case errors.As(err, &duplicateErr):
			field := duplicateErr.Field
			if field == "" {
				field = "user"
			}
			app.badRequestResponse(w, r, &AppError{
				ErrorStack:   err,
				ErrorKind:    kindDuplicate,
				ErrorMessage: "Registration failed.",
				ErrorDetails: map[string]string{field: "is already in use"},
			})
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.tokens.Issue(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"token": token, "user": newUserResponse(user)}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestFromDecode(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Email, "email", "must be provided")
	v.CheckNotBlank(input.Password, "password", "must be provided")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), input.Email)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	match, err := user.IsPasswordMatch(input.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	token, err := app.tokens.Issue(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"token": token, "user": newUserResponse(user)}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentity(r)
	if err != nil {
		app.invalidAuthenticationTokenResponse(w, r, err)
		return
	}

	user, err := app.core.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, newUserResponse(user), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	data := envelope{
		"status":      "available",
		"environment": app.config.env,
	}
	if err := app.writeJSON(w, http.StatusOK, data, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
