// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/middleware"
	requestutil "github.com/taibuivan/cursus/internal/platform/request"
	"github.com/taibuivan/cursus/internal/platform/respond"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/platform/validate"
	"github.com/taibuivan/cursus/pkg/pagination"
)

// Handler implements the course endpoints.
type Handler struct {
	courseService *Service
	users         UserLookup
	gate          *middleware.Gate
}

// NewHandler constructs a course [Handler].
func NewHandler(service *Service, users UserLookup, gate *middleware.Gate) *Handler {
	return &Handler{courseService: service, users: users, gate: gate}
}

// Routes returns a [chi.Router] configured with the course endpoints.
//
// # Endpoints
//   - GET    /, /{id} : authenticated
//   - POST   /, PUT /{id} : Teacher or Conceptor
//   - DELETE /{id} : Admin
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Require()).Get("/", handler.list)
	router.With(handler.gate.Require()).Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(handler.gate.Require(sec.RoleTeacher, sec.RoleConceptor))
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
	})

	router.With(handler.gate.Require(sec.RoleAdmin)).Delete("/{id}", handler.delete)

	return router
}

type createRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"max=5000"`
	IsPublic    bool   `json:"is_public"`
}

type updateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Slug        *string `json:"slug" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	IsPublic    *bool   `json:"is_public"`
}

/*
GET /api/v1/courses.

Response:
  - 200: []Course visible to the caller, with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	courses, meta, err := handler.courseService.List(request.Context(), actor, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, meta)
}

/*
GET /api/v1/courses/{id}.
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	actor, err := handler.actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Get(request.Context(), actor, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
POST /api/v1/courses.

Response:
  - 201: Course
  - 403: FORBIDDEN: Caller is neither Teacher nor Conceptor
  - 409: CONFLICT: Slug already used
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Create(request.Context(), actor, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, course)
}

/*
PUT /api/v1/courses/{id}.

Response:
  - 200: Course
  - 403: FORBIDDEN: Not the owner and not Admin
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	actor, err := handler.actor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Update(request.Context(), actor, id, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, course)
}

/*
DELETE /api/v1/courses/{id}.
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := pathID(writer, request)
	if !ok {
		return
	}

	if err := handler.courseService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// actor resolves the token subject to the caller's account.
func (handler *Handler) actor(request *http.Request) (Actor, error) {
	subject, err := requestutil.RequiredSubject(request)
	if err != nil {
		return Actor{}, err
	}

	user, err := handler.users.FindByEmail(request.Context(), subject)
	if err != nil {
		if apperr.IsNotFound(err) {
			// A valid token for a deleted account
			return Actor{}, apperr.Unauthorized("Authentication required")
		}
		return Actor{}, err
	}

	return Actor{UserID: user.ID, Role: requestutil.CallerRole(request)}, nil
}

func pathID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	id := requestutil.Param(request, FieldID)

	if err := validate.Var(FieldID, id, "uuid"); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}
	return id, true
}
