package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/todolist-api/internal/apperror"
	"github.com/sakif/todolist-api/internal/auth"
	"github.com/sakif/todolist-api/internal/model"
	"github.com/sakif/todolist-api/internal/service"
)

// TodoHandler serves the authenticated /api/todos endpoints. Every request
// here has already passed the bearer-token middleware; the identity is
// pulled from the request context.
type TodoHandler struct {
	todos  *service.TodoService
	logger *slog.Logger
}

func NewTodoHandler(todos *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: logger}
}

type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type todoResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

func toTodoResponse(t *model.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
	}
}

type todoListResponse struct {
	Data  []todoResponse `json:"data"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// identity extracts the authenticated identity. The middleware guarantees
// it is present; a missing identity means the route was wired without
// RequireAuth, which writeError reports as a 500.
func (h *TodoHandler) identity(r *http.Request) (*auth.Identity, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil, fmt.Errorf("handler: no identity in request context")
	}
	return id, nil
}

// todoID parses the {id} path parameter. A non-numeric id cannot name any
// todo, so it is reported as NotFound rather than a validation failure.
func todoID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("todo", raw)
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not a number.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// HandleList returns one page of the caller's todos.
//
//	GET /api/todos?page=1&limit=10
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 0)

	result, err := h.todos.List(r.Context(), identity.UserID, page, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data := make([]todoResponse, 0, len(result.Items))
	for i := range result.Items {
		data = append(data, toTodoResponse(&result.Items[i]))
	}

	writeJSON(w, h.logger, http.StatusOK, todoListResponse{
		Data:  data,
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
	})
}

// HandleGetByID returns a single todo.
//
//	GET /api/todos/{id}
func (h *TodoHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := todoID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	todo, err := h.todos.GetByID(r.Context(), identity.UserID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toTodoResponse(todo))
}

// HandleCreate stores a new todo and points at it with a Location header.
//
//	POST /api/todos
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req todoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), identity.UserID, req.Title, req.Description)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/todos/%d", todo.ID))
	writeJSON(w, h.logger, http.StatusCreated, toTodoResponse(todo))
}

// HandleUpdate replaces a todo's title and description. The completion
// flag is untouched; that is HandlePatch's job.
//
//	PUT /api/todos/{id}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := todoID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req todoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	todo, err := h.todos.Update(r.Context(), identity.UserID, id, req.Title, req.Description)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toTodoResponse(todo))
}

type patchTodoRequest struct {
	// Pointer distinguishes an absent field from an explicit false.
	IsCompleted *bool `json:"isCompleted"`
}

// HandlePatch sets the completion flag and nothing else.
//
//	PATCH /api/todos/{id}
func (h *TodoHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := todoID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req patchTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.IsCompleted == nil {
		writeError(w, h.logger, apperror.ValidationFailed("isCompleted", "'isCompleted' must be provided."))
		return
	}

	todo, err := h.todos.SetCompletion(r.Context(), identity.UserID, id, *req.IsCompleted)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toTodoResponse(todo))
}

// HandleDelete removes a todo.
//
//	DELETE /api/todos/{id}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := todoID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.todos.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
