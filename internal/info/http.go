// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package info

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cursus/internal/platform/middleware"
	requestutil "github.com/taibuivan/cursus/internal/platform/request"
	"github.com/taibuivan/cursus/internal/platform/respond"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/platform/validate"
)

// AliveMessage is the body of the public liveness probe.
const AliveMessage = "Cursus API is alive"

// Handler implements the info endpoints.
type Handler struct {
	infoService *Service
	gate        *middleware.Gate
}

// NewHandler constructs an info [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{infoService: service, gate: gate}
}

// Routes returns a [chi.Router] with GET / and GET /alive public and PUT / for Admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.get)
	router.Get("/alive", handler.alive)
	router.With(handler.gate.Require(sec.RoleAdmin)).Put("/", handler.put)

	return router
}

type putRequest struct {
	CGU           string `json:"cgu" validate:"required"`
	LegalMentions string `json:"legal_mentions" validate:"required"`
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	info, err := handler.infoService.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}

func (handler *Handler) alive(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, AliveMessage)
}

func (handler *Handler) put(writer http.ResponseWriter, request *http.Request) {
	var input putRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.infoService.Put(request.Context(), input.CGU, input.LegalMentions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}
