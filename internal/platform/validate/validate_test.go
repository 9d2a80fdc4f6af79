// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/validate"
)

type registerPayload struct {
	Email    string   `json:"email"    validate:"required,email,max=254"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     string   `json:"role"     validate:"omitempty,rolecode"`
	Grant    []string `json:"grant"    validate:"dive,role"`
	Internal string   `json:"-"        validate:"omitempty,max=3"`
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

/*
TestStruct maps tag violations onto field errors named after the JSON keys.
*/
func TestStruct(t *testing.T) {
	valid := registerPayload{Email: "jane@example.com", Password: "long-enough", Role: "0100", Grant: []string{"Teacher"}}
	assert.NoError(t, validate.Struct(valid))

	err := validate.Struct(registerPayload{Email: "nope", Password: "short", Role: "01", Grant: []string{"owner"}})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"email", "password", "role", "grant[0]"}, fieldsOf(t, err))
}

/*
TestStruct_RoleCode checks the wire role string rule.
*/
func TestStruct_RoleCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"1000", true},
		{"0111", true},
		{"100", false},
		{"10000", false},
		{"1002", false},
		{"abcd", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := validate.Struct(registerPayload{Email: "a@example.com", Password: "password1", Role: tt.code})
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}

/*
TestVar reports single-value failures under the given field name.
*/
func TestVar(t *testing.T) {
	assert.NoError(t, validate.Var("id", "0196f5a4-3b7e-7c2d-9a1f-2e4b6c8d0f12", "uuid"))

	err := validate.Var("id", "not-a-uuid", "uuid")
	require.Error(t, err)
	assert.Equal(t, []string{"id"}, fieldsOf(t, err))
	assert.Equal(t, "Must be a valid UUID", apperr.As(err).Details[0].Message)
}
