package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/forum/models"
)

type categoryDetailResponse struct {
	*models.Category
	Posts []*models.Post `json:"posts"`
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.core.ListCategories(r.Context())
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, categories, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	category, err := app.core.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	posts := category.Posts
	if posts == nil {
		posts = []*models.Post{}
	}
	if err := app.writeJSON(w, http.StatusOK, categoryDetailResponse{Category: category, Posts: posts}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// Any authenticated user may manage categories; users carry no role.
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestFromDecode(w, r, err)
		return
	}

	category, err := app.core.CreateCategory(r.Context(), models.NewCategory{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, category, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestFromDecode(w, r, err)
		return
	}

	category, err := app.core.UpdateCategory(r.Context(), id, models.CategoryPatch{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, category, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := app.core.DeleteCategory(r.Context(), id); err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Category deleted successfully"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
