// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/taibuivan/cursus/internal/platform/constants"
	"github.com/taibuivan/cursus/internal/platform/middleware"
	requestutil "github.com/taibuivan/cursus/internal/platform/request"
	"github.com/taibuivan/cursus/internal/platform/respond"
	"github.com/taibuivan/cursus/internal/platform/validate"
)

// # Definitions & Constructors

// CookieSettings controls the cookies set next to the JSON token response.
type CookieSettings struct {
	// AccessCookieName is the cookie read by [middleware.CookieCarrier].
	AccessCookieName string

	// Secure marks cookies HTTPS-only. Disabled in development.
	Secure bool
}

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session entry points: registration, login,
// refresh and logout.
type Handler struct {
	authService *Service
	gate        *middleware.Gate
	cookies     CookieSettings
}

// NewHandler constructs a new [Handler] with its service dependency.
//
// The gate is used in optional mode on /register so an authenticated Admin
// can create accounts with elevated roles.
func NewHandler(service *Service, gate *middleware.Gate, cookies CookieSettings) *Handler {
	return &Handler{authService: service, gate: gate, cookies: cookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and opens a session.
//   - POST /login    : Authenticates and returns a JWT.
//   - POST /refresh  : Rotates the refresh token.
//   - POST /logout   : Revokes the refresh token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Credential endpoints are throttled per client IP
	router.Group(func(r chi.Router) {
		r.Use(httprate.Limit(constants.LoginRateLimit, constants.LoginRateWindow,
			httprate.WithKeyFuncs(clientKey),
			httprate.WithLimitHandler(middleware.LimitExceeded(constants.LoginRateWindow)),
		))
		r.With(handler.gate.Identify).Post("/register", handler.register)
		r.Post("/login", handler.login)
	})

	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// # Request Payloads

type registerRequest struct {
	Pseudo   string `json:"pseudo" validate:"omitempty,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,rolecode"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Pseudo, Email, Password, Role)

Response:
  - 201: Session: Tokens and created user profile
  - 400: VALIDATION_ERROR: Bad input or validation failure
  - 403: FORBIDDEN: Non-default role requested by a non-admin
  - 409: CONFLICT: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Pseudo:   input.Pseudo,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Caller:   requestutil.CallerRole(request),
		Client:   clientInfo(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.Created(writer, session)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates the JWT access token, and injects
the access and refresh token cookies into the response.

Response:
  - 200: Session: Access token, refresh token and user profile
  - 401: UNAUTHORIZED: Invalid credentials
  - 429: Too many attempts from this IP
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
		Client:   clientInfo(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, session)
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /api/v1/auth/refresh

Description: The token is read from the JSON body, or from the refresh cookie
when the body is empty. The presented token is consumed.

Response:
  - 200: Session: New token pair
  - 401: UNAUTHORIZED: Unknown, used or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken, err := handler.readRefreshToken(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(request.Context(), refreshToken, clientInfo(request))
	if err != nil {
		handler.clearSessionCookies(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, session)
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	refreshToken, err := handler.readRefreshToken(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), refreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.NoContent(writer)
}

// # Helpers

func (handler *Handler) readRefreshToken(writer http.ResponseWriter, request *http.Request) (string, error) {
	var input refreshRequest
	present, err := requestutil.DecodeOptionalJSON(writer, request, &input)
	if err != nil {
		return "", err
	}
	if present && input.RefreshToken != "" {
		return input.RefreshToken, nil
	}

	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		return "", nil
	}
	return cookie.Value, nil
}

func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     handler.cookies.AccessCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   session.ExpiresIn,
		Expires:  session.ExpiresAt,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(time.Until(session.RefreshTokenExpiresAt).Seconds()),
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	for _, cookie := range []struct{ name, path string }{
		{handler.cookies.AccessCookieName, "/"},
		{constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath},
	} {
		http.SetCookie(writer, &http.Cookie{
			Name:     cookie.name,
			Value:    "",
			Path:     cookie.path,
			MaxAge:   -1,
			Secure:   handler.cookies.Secure,
			HttpOnly: true,
		})
	}
}

func clientInfo(request *http.Request) ClientInfo {
	return ClientInfo{
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	}
}

// clientKey buckets credential attempts by the same address the session records.
func clientKey(request *http.Request) (string, error) {
	return middleware.RealIP(request), nil
}
