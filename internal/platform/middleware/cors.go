// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/cursus/internal/platform/constants"
)

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Accept, Content-Type, Content-Length, Authorization, X-Request-ID"
	corsExposeHeaders = "Content-Length, X-Request-ID, Retry-After"
)

// CORS echoes allowed origins with credentials enabled, since the access
// token may travel in a cookie.
//
// Development allows every origin. Elsewhere an origin must end in
// constants.AllowedOriginSuffix or be listed in extraOrigins.
func CORS(cfg AppConfig, extraOrigins ...string) func(http.Handler) http.Handler {
	listed := make(map[string]struct{}, len(extraOrigins))
	for _, origin := range extraOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			listed[origin] = struct{}{}
		}
	}

	allowed := func(origin string) bool {
		if cfg.IsDevelopment() {
			return true
		}
		if _, ok := listed[origin]; ok {
			return true
		}
		return strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, constants.AllowedOriginSuffix)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)
			if allowed(origin) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}

			if request.Method == http.MethodOptions && request.Header.Get("Access-Control-Request-Method") != "" {
				if allowed(origin) {
					header.Set("Access-Control-Allow-Methods", corsAllowMethods)
					header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					header.Set("Access-Control-Max-Age", "300")
				}
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
