// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"

	"github.com/taibuivan/cursus/internal/platform/constants"
)

// TrustedProxies drops X-Real-IP and X-Forwarded-For unless the connection
// peer falls inside one of trusted. Mount it first so every later [RealIP]
// call, including the per-IP limiters, only sees proxy-written headers.
func TrustedProxies(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !peerTrusted(request.RemoteAddr, trusted) {
				request.Header.Del(constants.HeaderXRealIP)
				request.Header.Del(constants.HeaderXForwardedFor)
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func peerTrusted(remoteAddr string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addrPort, err := netip.ParseAddrPort(remoteAddr)
	if err != nil {
		return false
	}
	peer := addrPort.Addr().Unmap()
	return slices.ContainsFunc(trusted, func(prefix netip.Prefix) bool {
		return prefix.Contains(peer)
	})
}

// RealIP returns the client address, preferring X-Real-IP, then the first
// X-Forwarded-For hop, then the connection peer. The headers are only
// trustworthy behind [TrustedProxies].
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
