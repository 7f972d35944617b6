package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/web"
)

const requestIDCtxKey web.ContextKey = "request_id"

// requireAuthenticatedUser verifies the bearer token and attaches its identity.
// Ownership is left to the handlers.
func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		token, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r, err)
			return
		}

		identity, err := app.tokens.Verify(token)
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r, err)
			return
		}

		next(w, auth.SetIdentity(r, identity))
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, xerrors.Newf("panic: %v", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		r = web.AddValueToContext(r, requestIDCtxKey, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "request handled",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
