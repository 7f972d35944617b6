package main

import (
	"net/http"

	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/models"
)

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := app.readIDParam(r, "postId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	comments, err := app.core.ListComments(r.Context(), postID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, comments, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := app.readIDParam(r, "postId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Content string `json:"content"`
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

	comment, err := app.core.CreateComment(r.Context(), identity, postID, input.Content)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, comment, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "commentId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Content *string `json:"content"`
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

	comment, err := app.core.UpdateComment(r.Context(), identity, id, models.CommentPatch{Content: input.Content})
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, comment, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "commentId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	identity, err := auth.GetIdentity(r)
	if err != nil {
		app.invalidAuthenticationTokenResponse(w, r, err)
		return
	}

	if err := app.core.DeleteComment(r.Context(), identity, id); err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Comment deleted"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
