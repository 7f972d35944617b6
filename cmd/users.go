package main

import (
	"net/http"

	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/models"
)

func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	profile, err := app.core.GetProfile(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profile_picture"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestFromDecode(w, r, err)
		return
	}

	identity, err := auth.GetIdentity(r)
	if err != nil {
		app.invalidAuthenticationTokenResponse(w, r, err)
		return
	}

	profile, err := app.core.UpdateProfile(r.Context(), identity, id, models.ProfilePatch{
		Bio:          input.Bio,
		ProfileImage: input.ProfilePicture,
	})
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, profile, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
