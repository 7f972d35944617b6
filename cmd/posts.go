package main

import (
	"net/http"

	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/models"
)

// postDetailResponse always carries the comments array, even when empty.
type postDetailResponse struct {
	*models.Post
	Comments []*models.Comment `json:"comments"`
}

func newPostDetailResponse(post *models.Post) postDetailResponse {
	comments := post.Comments
	if comments == nil {
		comments = []*models.Comment{}
	}
	return postDetailResponse{Post: post, Comments: comments}
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.core.ListPosts(r.Context())
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, posts, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	post, err := app.core.GetPost(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}
	if err := app.writeJSON(w, http.StatusOK, newPostDetailResponse(post), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title      string     `json:"title"`
		Content    string     `json:"content"`
		CategoryID flexibleID `json:"category_id"`
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

	post, err := app.core.CreatePost(r.Context(), identity, models.NewPost{
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: int64(input.CategoryID),
	})
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, post, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Title      *string     `json:"title"`
		Content    *string     `json:"content"`
		CategoryID *flexibleID `json:"category_id"`
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

	patch := models.PostPatch{Title: input.Title, Content: input.Content}
	if input.CategoryID != nil {
		categoryID := int64(*input.CategoryID)
		patch.CategoryID = &categoryID
	}

	post, err := app.core.UpdatePost(r.Context(), identity, id, patch)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}
	if err := app.writeJSON(w, http.StatusOK, newPostDetailResponse(post), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	identity, err := auth.GetIdentity(r)
	if err != nil {
		app.invalidAuthenticationTokenResponse(w, r, err)
		return
	}

	if err := app.core.DeletePost(r.Context(), identity, id); err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Post deleted"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
