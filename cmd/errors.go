package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/core"
	"github.com/siahsang/forum/internal/validator"
	"github.com/siahsang/forum/internal/web"
)

// Values of the "error" field of every error body.
const (
	kindValidation         = "ValidationError"
	kindMissingToken       = "MissingToken"
	kindMalformedToken     = "MalformedToken"
	kindInvalidToken       = "InvalidToken"
	kindInvalidCredentials = "InvalidCredentials"
	kindNotFound           = "NotFound"
	kindForbidden          = "Forbidden"
	kindDuplicate          = "DuplicateError"
	kindConflict           = "Conflict"
	kindMethodNotAllowed   = "MethodNotAllowed"
	kindDependency         = "DependencyError"
	kindInternal           = "InternalError"
)

type AppError struct {
	ErrorStack   error
	ErrorKind    string
	ErrorMessage string
	ErrorDetails map[string]string
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, appError *AppError) {
	if appError.ErrorKind == "" {
		appError.ErrorKind = kindValidation
	}
	if appError.ErrorMessage == "" {
		appError.ErrorMessage = "The request is invalid."
	}
	app.errorResponse(w, r, http.StatusBadRequest, appError)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, details map[string]string) {
	app.badRequestResponse(w, r, &AppError{
		ErrorMessage: "One or more fields are invalid.",
		ErrorDetails: details,
	})
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request, err error) {
	kind := kindInvalidToken
	message := "Invalid or expired authentication token."
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		kind = kindMissingToken
		message = "Authentication is required to access this resource."
	case errors.Is(err, auth.ErrMalformedToken):
		kind = kindMalformedToken
		message = "Authorization header must be in the format 'Bearer <token>'."
	}

	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{
		ErrorStack:   err,
		ErrorKind:    kind,
		ErrorMessage: message,
	})
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{
		ErrorKind:    kindInvalidCredentials,
		ErrorMessage: "Invalid password.",
	})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, &AppError{
		ErrorKind:    kindNotFound,
		ErrorMessage: "The requested resource could not be found.",
	})
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, &AppError{
		ErrorKind:    kindMethodNotAllowed,
		ErrorMessage: fmt.Sprintf("The %s method is not supported for this resource.", r.Method),
	})
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusForbidden, &AppError{
		ErrorStack:   err,
		ErrorKind:    kindForbidden,
		ErrorMessage: "You are not authorized to modify this resource.",
	})
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, appError *AppError) {
	app.errorResponse(w, r, http.StatusConflict, appError)
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	kind := kindInternal
	var depErr *core.DependencyError
	if errors.As(err, &depErr) {
		kind = kindDependency
	}
	app.errorResponse(w, r, http.StatusInternalServerError, &AppError{
		ErrorStack:   err,
		ErrorKind:    kind,
		ErrorMessage: "An internal server error occurred.",
	})
}

// serviceErrorResponse maps an error returned by core onto its HTTP response.
func (app *application) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *validator.Error
		duplicateErr  *core.DuplicateError
	)

	switch {
	case errors.As(err, &validationErr):
		app.badRequestResponse(w, r, &AppError{
			ErrorStack:   err,
			ErrorMessage: "One or more fields are invalid.",
			ErrorDetails: validationErr.Fields,
		})
	case errors.Is(err, core.ErrNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, core.ErrForbidden):
		app.forbiddenResponse(w, r, err)
	case errors.As(err, &duplicateErr):
		appError := &AppError{
			ErrorStack:   err,
			ErrorKind:    kindDuplicate,
			ErrorMessage: "A record with the same value already exists.",
		}
		if duplicateErr.Field != "" {
			appError.ErrorDetails = map[string]string{duplicateErr.Field: "already exists"}
		}
		app.conflictResponse(w, r, appError)
	case errors.Is(err, core.ErrCategoryNotEmpty):
		app.conflictResponse(w, r, &AppError{
			ErrorStack:   err,
			ErrorKind:    kindConflict,
			ErrorMessage: "The category still has posts and cannot be deleted.",
		})
	default:
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, appError *AppError) {
	body := envelope{
		"error":   appError.ErrorKind,
		"message": appError.ErrorMessage,
	}
	if len(appError.ErrorDetails) > 0 {
		body["details"] = appError.ErrorDetails
	}

	var attrs []slog.Attr
	attrs = append(attrs, slog.String("request_url", r.URL.String()))
	attrs = append(attrs, slog.String("request_method", r.Method))
	attrs = append(attrs, slog.Int("status", status))
	if requestID, ok := web.GetValueFromContext[string](r, requestIDCtxKey); ok {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if appError.ErrorStack != nil {
		attrs = append(attrs, slog.String("stack", xerrors.Sprint(appError.ErrorStack)))
	}

	for key, valueData := range appError.ErrorDetails {
		attrs = append(attrs, slog.Any(key, valueData))
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	app.logger.LogAttrs(r.Context(), level, "ErrorStack in handling request", attrs...)

	err := app.writeJSON(w, status, body, nil)
	if err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}
