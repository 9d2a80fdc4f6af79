// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the security primitives of the API: the role code
// model, the authorization evaluator, the access token codec and password
// hashing.
//
// # Architecture
//
// Everything in this package is pure in-memory computation. Nothing blocks on
// I/O and nothing reads the clock: callers take "now" once and pass it in, so
// an expiry decision is made against a single instant. The only shared value
// is the signing secret, handed to [NewTokenCodec] at startup and never
// changed afterwards, which makes every type here safe for concurrent use.
package sec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HS256 secret the codec accepts.
const MinSecretLength = 32

// TokenCodec signs and verifies HS256 access tokens.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec creates a codec keyed by secret. The slice is copied.
// When issuer is non-empty it is stamped on issued tokens and required on
// verification.
func NewTokenCodec(secret []byte, issuer string) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: token codec requires a signing secret")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenCodec{secret: key, issuer: issuer}, nil
}

// Issue signs claims into a compact token.
//
// The caller owns the expiry: a claim set without one, or with an invalid role
// code, is refused rather than signed.
func (codec *TokenCodec) Issue(claims Claims) (string, error) {
	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: claim set has no expiry", ErrMalformed)
	}
	if !ValidRoleCode(claims.Role) {
		return "", fmt.Errorf("%w: role claim %q", ErrMalformed, claims.Role)
	}
	if claims.Issuer == "" {
		claims.Issuer = codec.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// IssueSession builds a claim set for subject valid from now for timeToLive
// and signs it. A fresh token identifier is attached to every session.
func (codec *TokenCodec) IssueSession(subject string, role RoleCode, now time.Time, timeToLive time.Duration) (string, *Claims, error) {
	claims := NewClaims(subject, role, now, timeToLive)
	claims.ID = newTokenID()

	signedToken, err := codec.Issue(claims)
	if err != nil {
		return "", nil, err
	}
	claims.Issuer = codec.issuer

	return signedToken, &claims, nil
}

// Verify checks token against the secret at instant now.
//
// The MAC is checked over the raw signing input before the claims are
// decoded, so any change to the payload or signature segments is reported as
// a signature failure. The role claim is not inspected here; the gate decides
// what a bad role code means for a given route.
//
// Errors:
//   - [ErrMalformed] when the token does not have three segments, the header
//     does not decode, or it names another algorithm;
//   - [ErrSignatureInvalid] when the MAC does not match (tampering, wrong secret);
//   - [ErrExpired] when now is at or past the expiry.
func (codec *TokenCodec) Verify(tokenString string, now time.Time) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	}
	if codec.issuer != "" {
		options = append(options, jwt.WithIssuer(codec.issuer))
	}
	parser := jwt.NewParser(options...)

	if err := codec.verifySignature(parser, tokenString); err != nil {
		return nil, err
	}

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return codec.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return claims, nil
}

// verifySignature authenticates header.payload without decoding the payload.
func (codec *TokenCodec) verifySignature(parser *jwt.Parser, tokenString string) error {
	segments := strings.Split(tokenString, ".")
	if len(segments) != 3 {
		return fmt.Errorf("%w: token has %d segments", ErrMalformed, len(segments))
	}

	headerJSON, err := parser.DecodeSegment(segments[0])
	if err != nil {
		return fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	var header struct {
		Algorithm string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	if header.Algorithm != jwt.SigningMethodHS256.Alg() {
		return fmt.Errorf("%w: unexpected signing method %q", ErrMalformed, header.Algorithm)
	}

	// A signature segment that is not a canonical encoding cannot be our MAC.
	signature, err := parser.DecodeSegment(segments[2])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	signingInput := tokenString[:len(segments[0])+1+len(segments[1])]
	if err := jwt.SigningMethodHS256.Verify(signingInput, signature, codec.secret); err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	return nil
}

// classify folds the library's error tree onto the package taxonomy.
// Structural problems win over signature problems, which win over expiry.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, ErrMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
