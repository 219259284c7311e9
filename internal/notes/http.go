// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/notable/internal/platform/middleware"
	requestutil "github.com/taibuivan/notable/internal/platform/request"
	"github.com/taibuivan/notable/internal/platform/respond"
	"github.com/taibuivan/notable/internal/platform/validate"
)

// Handler implements the owner-scoped notes HTTP endpoints.
//
// Every route sits behind [middleware.RequireAuth]; the owner identity used
// below always comes from the verified token claims, never from the body.
type Handler struct {
	noteService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{noteService: service}
}

// Routes returns a [chi.Router] configured with the notes routes.
//
// # Endpoints
//   - GET    /                    : List the owner's notes.
//   - GET    /search?query=       : Substring search over the owner's notes.
//   - POST   /                    : Create a note.
//   - GET    /{id}                : Fetch one owned note.
//   - PUT    /{id}                : Partial update of one owned note.
//   - DELETE /{id}                : Delete one owned note.
//   - POST   /{id}/confirm-update : Secondary confirmation path for the
//     client's forced-update fallback.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Get("/search", handler.search)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)
	router.Post("/{id}/confirm-update", handler.confirmUpdate)

	return router
}

// # Request Payloads

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

/*
list returns all notes for the authenticated owner.

GET /api/notes

Response:
  - 200: []Note, newest-created first
  - 401: Missing or invalid token
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.noteService.List(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
search filters the owner's notes by a case-insensitive substring.

GET /api/notes/search?query=

Response:
  - 200: []Note matching title or content
  - 400: Missing query parameter
  - 401: Missing or invalid token
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query().Get(FieldQuery)

	result, err := handler.noteService.Search(request.Context(), ownerID, query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
get fetches a single owned note.

GET /api/notes/{id}

Response:
  - 200: Note
  - 403: Note exists but belongs to another user (generic message)
  - 404: Identifier does not resolve
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.noteService.Get(request.Context(), ownerID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, note)
}

/*
create persists a new note owned by the authenticated user.

POST /api/notes

Request:
  - Body: createNoteRequest (Title, Content — both required)

Response:
  - 201: Note with server-assigned id and timestamps
  - 400: Validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createNoteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	note, err := handler.noteService.Create(request.Context(), ownerID, CreateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, note)
}

/*
update applies a partial update to an owned note.

PUT /api/notes/{id}

Request:
  - Body: updateNoteRequest (Title and/or Content; omitted fields unchanged)

Response:
  - 200: Note with refreshed updated timestamp
  - 400: Provided field fails validation
  - 403/404: Ownership or resolution failure
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNoteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	note, err := handler.noteService.Update(request.Context(), ownerID, requestutil.ID(request, "id"), UpdateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, note)
}

/*
remove deletes an owned note.

DELETE /api/notes/{id}

Response:
  - 200: {"message": "Note removed"}
  - 403/404: Ownership or resolution failure
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.noteService.Delete(request.Context(), ownerID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Note removed"})
}

/*
confirmUpdate re-applies an update through the confirmation path.

POST /api/notes/{id}/confirm-update

Description: The browser client only calls this after the primary PUT has
failed. Validation and ownership checks are identical to the primary path;
the response additionally carries an explicit confirmation flag.

Response:
  - 200: {"confirmed": true, "note": Note}
  - 400/403/404: Same failure modes as PUT
*/
func (handler *Handler) confirmUpdate(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNoteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	note, err := handler.noteService.ConfirmUpdate(request.Context(), ownerID, requestutil.ID(request, "id"), UpdateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"confirmed": true,
		"note":      note,
	})
}
