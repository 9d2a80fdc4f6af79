// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	issuedAt   = time.Unix(1_760_000_000, 0)
)

func newCodec(t *testing.T, secret []byte) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(secret, "cursus-test")
	require.NoError(t, err)
	return codec
}

func issueToken(t *testing.T, codec *sec.TokenCodec, role sec.RoleCode) string {
	t.Helper()
	token, err := codec.Issue(sec.NewClaims("jane@example.com", role, issuedAt, 15*time.Minute))
	require.NoError(t, err)
	return token
}

/*
TestTokenCodec_RoundTrip verifies that verifying at the issue instant returns the issued claims.
*/
func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t, testSecret)

	for mask := 0; mask < 16; mask++ {
		role := sec.RoleCode(mask)
		token := issueToken(t, codec, role)

		assert.Len(t, strings.Split(token, "."), 3)

		claims, err := codec.Verify(token, issuedAt)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", claims.Subject)
		assert.Equal(t, role.String(), claims.Role)
		assert.Equal(t, "cursus-test", claims.Issuer)
		assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, issuedAt.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())

		decoded, err := claims.RoleCode()
		require.NoError(t, err)
		assert.Equal(t, role, decoded)
	}
}

/*
TestTokenCodec_Expiry checks the inclusive expiry boundary.
*/
func TestTokenCodec_Expiry(t *testing.T) {
	codec := newCodec(t, testSecret)
	token := issueToken(t, codec, sec.DefaultRoleCode)
	expiresAt := issuedAt.Add(15 * time.Minute)

	_, err := codec.Verify(token, expiresAt.Add(-time.Second))
	assert.NoError(t, err)

	_, err = codec.Verify(token, expiresAt)
	assert.ErrorIs(t, err, sec.ErrExpired)

	_, err = codec.Verify(token, expiresAt.Add(time.Hour))
	assert.ErrorIs(t, err, sec.ErrExpired)
}

/*
TestTokenCodec_WrongSecret verifies a token signed with another secret is rejected.
*/
func TestTokenCodec_WrongSecret(t *testing.T) {
	token := issueToken(t, newCodec(t, testSecret), sec.DefaultRoleCode)
	other := newCodec(t, []byte("fedcba9876543210fedcba9876543210"))

	_, err := other.Verify(token, issuedAt)
	assert.ErrorIs(t, err, sec.ErrSignatureInvalid)
}

/*
TestTokenCodec_TamperedPayload re-encodes an altered payload and keeps the original signature.
*/
func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec := newCodec(t, testSecret)
	parts := strings.Split(issueToken(t, codec, sec.DefaultRoleCode), ".")

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	escalated := strings.Replace(string(payload), `"role":"1000"`, `"role":"0001"`, 1)
	require.NotEqual(t, string(payload), escalated)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(escalated))

	_, err = codec.Verify(strings.Join(parts, "."), issuedAt)
	assert.ErrorIs(t, err, sec.ErrSignatureInvalid)
}

/*
TestTokenCodec_TamperEveryCharacter replaces each payload and signature character
and expects a signature failure every time, whether or not the altered segment
still decodes.
*/
func TestTokenCodec_TamperEveryCharacter(t *testing.T) {
	codec := newCodec(t, testSecret)
	token := issueToken(t, codec, sec.NewRoleCode(sec.RoleTeacher))
	payloadStart := strings.Index(token, ".") + 1

	for index := payloadStart; index < len(token); index++ {
		if token[index] == '.' {
			continue
		}

		replacement := base64URLAlphabet[(strings.IndexByte(base64URLAlphabet, token[index])+1)%len(base64URLAlphabet)]
		tampered := token[:index] + string(replacement) + token[index+1:]

		_, err := codec.Verify(tampered, issuedAt)
		assert.ErrorIs(t, err, sec.ErrSignatureInvalid, "position %d", index)
	}
}

/*
TestTokenCodec_BitFlips flips every bit of the decoded payload and signature,
re-encodes the segment and expects [sec.ErrSignatureInvalid] for each flip.
*/
func TestTokenCodec_BitFlips(t *testing.T) {
	codec := newCodec(t, testSecret)
	parts := strings.Split(issueToken(t, codec, sec.NewRoleCode(sec.RoleTeacher)), ".")

	for _, segment := range []int{1, 2} {
		decoded, err := base64.RawURLEncoding.DecodeString(parts[segment])
		require.NoError(t, err)

		for bit := 0; bit < len(decoded)*8; bit++ {
			flipped := append([]byte(nil), decoded...)
			flipped[bit/8] ^= 1 << (bit % 8)

			tampered := append([]string(nil), parts...)
			tampered[segment] = base64.RawURLEncoding.EncodeToString(flipped)

			_, err := codec.Verify(strings.Join(tampered, "."), issuedAt)
			assert.ErrorIs(t, err, sec.ErrSignatureInvalid, "segment %d bit %d", segment, bit)
		}
	}
}

/*
TestTokenCodec_Malformed covers structural failures.
*/
func TestTokenCodec_Malformed(t *testing.T) {
	codec := newCodec(t, testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two_segments", "aGVhZGVy.cGF5bG9hZA"},
		{"bad_base64", "!!!.???.***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token, issuedAt)
			assert.ErrorIs(t, err, sec.ErrMalformed)
		})
	}
}

/*
TestTokenCodec_RejectsOtherAlgorithms verifies that only HS256 is accepted.
*/
func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newCodec(t, testSecret)
	claims := sec.NewClaims("jane@example.com", sec.DefaultRoleCode, issuedAt, time.Minute)
	claims.Issuer = "cursus-test"

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = codec.Verify(hs512, issuedAt)
	assert.ErrorIs(t, err, sec.ErrMalformed)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(none, issuedAt)
	assert.ErrorIs(t, err, sec.ErrMalformed)
}

/*
TestTokenCodec_InvalidRoleClaim verifies that a bad role is never signed, while a
correctly signed token carrying one still verifies and leaves the role decision
to the gate.
*/
func TestTokenCodec_InvalidRoleClaim(t *testing.T) {
	codec := newCodec(t, testSecret)
	claims := sec.NewClaims("jane@example.com", sec.DefaultRoleCode, issuedAt, time.Minute)
	claims.Issuer = "cursus-test"
	claims.Role = "admin"

	_, err := codec.Issue(claims)
	assert.ErrorIs(t, err, sec.ErrMalformed)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(testSecret)
	require.NoError(t, err)
	verified, err := codec.Verify(signed, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, "admin", verified.Role)

	_, err = verified.RoleCode()
	assert.ErrorIs(t, err, sec.ErrMalformed)
}

/*
TestTokenCodec_IssueRequiresExpiry verifies the caller must set the expiry.
*/
func TestTokenCodec_IssueRequiresExpiry(t *testing.T) {
	codec := newCodec(t, testSecret)
	claims := sec.NewClaims("jane@example.com", sec.DefaultRoleCode, issuedAt, time.Minute)
	claims.ExpiresAt = nil

	_, err := codec.Issue(claims)
	assert.ErrorIs(t, err, sec.ErrMalformed)
}

func TestTokenCodec_IssueSession(t *testing.T) {
	codec := newCodec(t, testSecret)

	token, claims, err := codec.IssueSession("jane@example.com", sec.NewRoleCode(sec.RoleAdmin), issuedAt, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "0001", claims.Role)

	verified, err := codec.Verify(token, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, verified.ID)
	assert.Equal(t, claims.Subject, verified.Subject)
}

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenCodec(nil, "")
	assert.Error(t, err)
}

/*
FuzzTokenCodec_Verify asserts the parser never panics and accepts no string but
the token it signed.
*/
func FuzzTokenCodec_Verify(f *testing.F) {
	codec, err := sec.NewTokenCodec(testSecret, "cursus-test")
	if err != nil {
		f.Fatal(err)
	}
	valid, err := codec.Issue(sec.NewClaims("jane@example.com", sec.DefaultRoleCode, issuedAt, time.Minute))
	if err != nil {
		f.Fatal(err)
	}

	f.Add(valid)
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0.e30.")

	f.Fuzz(func(t *testing.T, token string) {
		_, err := codec.Verify(token, issuedAt)
		if err == nil && token != valid {
			t.Fatalf("accepted unsigned token %q", token)
		}
	})
}
