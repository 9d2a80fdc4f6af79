// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cursus/internal/platform/middleware"
	requestutil "github.com/taibuivan/cursus/internal/platform/request"
	"github.com/taibuivan/cursus/internal/platform/respond"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/platform/validate"
	"github.com/taibuivan/cursus/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
	gate           *middleware.Gate
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{accountService: service, gate: gate}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
//
// # Endpoints
//   - GET    /email-used/{email} : public
//   - GET    /me, /{id}, /by-email/{email}, PUT /{id} : authenticated
//   - GET    /, POST /, PUT /{id}/role, DELETE /{id} : Admin
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public discovery
	router.Get("/email-used/{email}", handler.emailUsed)

	// Any authenticated caller
	router.Group(func(r chi.Router) {
		r.Use(handler.gate.Require())
		r.Get("/me", handler.getMe)
		r.Get("/by-email/{email}", handler.getByEmail)
		r.Get("/{id}", handler.getByID)
		r.Put("/{id}", handler.update)
	})

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(handler.gate.Require(sec.RoleAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Put("/{id}/role", handler.changeRoles)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

// # Lookups

/*
GET /api/v1/users/me.

Description: Retrieves the account of the authenticated caller, looked up by
the token subject.

Response:
  - 200: User: Fully hydrated user profile
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	subject, err := requestutil.RequiredSubject(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetByEmail(request.Context(), subject)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/{id}.
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathID(writer, request)
	if !ok {
		return
	}

	user, err := handler.accountService.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/by-email/{email}.
*/
func (handler *Handler) getByEmail(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetByEmail(request.Context(), requestutil.Param(request, FieldEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/email-used/{email}.

Response:
  - 200: {"used": true}
  - 404: NOT_FOUND: No account uses this email
*/
func (handler *Handler) emailUsed(writer http.ResponseWriter, request *http.Request) {
	used, err := handler.accountService.EmailUsed(request.Context(), requestutil.Param(request, FieldEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !used {
		respond.JSON(writer, http.StatusNotFound, map[string]bool{"used": false})
		return
	}

	respond.OK(writer, map[string]bool{"used": true})
}

/*
GET /api/v1/users.

Request:
  - page, limit: query parameters

Response:
  - 200: []User with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, meta, err := handler.accountService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

// # Mutations

type createRequest struct {
	Pseudo   string `json:"pseudo" validate:"omitempty,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,rolecode"`
}

/*
POST /api/v1/users.

Description: Creates an account with an explicit role code.

Response:
  - 201: User
  - 409: CONFLICT: Email already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Pseudo:   input.Pseudo,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// updateRequest defines the expected JSON payload for partial updates.
type updateRequest struct {
	Pseudo   *string `json:"pseudo" validate:"omitempty,min=1,max=64"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,rolecode"`
}

/*
PUT /api/v1/users/{id}.

Description: Applies partial updates. Self or Admin; only Admin may change the role.

Response:
  - 200: User: The updated profile
  - 403: FORBIDDEN: Not the owner, or role change by a non-admin
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathID(writer, request)
	if !ok {
		return
	}

	actor, err := actorOf(request)
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

	user, err := handler.accountService.Update(request.Context(), actor, id, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

type roleChangeRequest struct {
	Grant  []string `json:"grant" validate:"dive,role"`
	Revoke []string `json:"revoke" validate:"dive,role"`
}

/*
PUT /api/v1/users/{id}/role.

Request:
  - Body: {"grant": ["teacher"], "revoke": ["learner"]}

Response:
  - 200: User with the new role code
*/
func (handler *Handler) changeRoles(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathID(writer, request)
	if !ok {
		return
	}

	actor, err := actorOf(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input roleChangeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ChangeRoles(request.Context(), actor, id, RoleChange{
		Grant:  mustRoles(input.Grant),
		Revoke: mustRoles(input.Revoke),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Response:
  - 204: No Content
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathID(writer, request)
	if !ok {
		return
	}

	if err := handler.accountService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Helpers

func (handler *Handler) pathID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	id := requestutil.Param(request, FieldID)

	if err := validate.Var(FieldID, id, "uuid"); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}
	return id, true
}

func actorOf(request *http.Request) (Actor, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return Actor{}, err
	}
	return Actor{Subject: claims.Subject, Role: requestutil.CallerRole(request)}, nil
}

// mustRoles converts names already checked by the "role" validation tag.
func mustRoles(names []string) []sec.Role {
	roles := make([]sec.Role, 0, len(names))
	for _, name := range names {
		if role, err := sec.ParseRole(name); err == nil {
			roles = append(roles, role)
		}
	}
	return roles
}
