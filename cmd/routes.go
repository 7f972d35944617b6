package main

import (
	"io/fs"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthcheckHandler)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginHandler)
	router.HandlerFunc(http.MethodGet, "/api/categories", app.listCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/api/categories/:slug", app.getCategoryHandler)
	router.HandlerFunc(http.MethodGet, "/api/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodGet, "/api/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodGet, "/api/comments/post/:postId", app.listCommentsHandler)
	router.HandlerFunc(http.MethodGet, "/api/users/:id", app.getProfileHandler)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/api/auth/me", app.requireAuthenticatedUser(app.currentUserHandler))
	router.HandlerFunc(http.MethodPost, "/api/categories", app.requireAuthenticatedUser(app.createCategoryHandler))
	router.HandlerFunc(http.MethodPut, "/api/categories/:id", app.requireAuthenticatedUser(app.updateCategoryHandler))
	router.HandlerFunc(http.MethodDelete, "/api/categories/:id", app.requireAuthenticatedUser(app.deleteCategoryHandler))
	router.HandlerFunc(http.MethodPost, "/api/posts", app.requireAuthenticatedUser(app.createPostHandler))
	router.HandlerFunc(http.MethodPut, "/api/posts/:id", app.requireAuthenticatedUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id", app.requireAuthenticatedUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodPost, "/api/comments/post/:postId", app.requireAuthenticatedUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodPut, "/api/comments/:commentId", app.requireAuthenticatedUser(app.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/api/comments/:commentId", app.requireAuthenticatedUser(app.deleteCommentHandler))
	router.HandlerFunc(http.MethodPut, "/api/users/:id", app.requireAuthenticatedUser(app.updateProfileHandler))

	router.ServeFiles("/uploads/*filepath", fileOnlyFS{http.Dir(app.images.Root())})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: app.config.cors.trustedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return app.recoverPanic(app.logRequest(corsHandler.Handler(router)))
}

// fileOnlyFS serves regular files and reports directories as missing, so
// stored uploads cannot be listed.
type fileOnlyFS struct {
	root http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}

	return file, nil
}
