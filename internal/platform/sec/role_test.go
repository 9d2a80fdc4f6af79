// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

/*
TestValidRoleCode checks the length and alphabet rules of the wire form.
*/
func TestValidRoleCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"learner", "1000", true},
		{"admin", "0001", true},
		{"none", "0000", true},
		{"all", "1111", true},
		{"empty", "", false},
		{"too_short", "100", false},
		{"too_long", "10000", false},
		{"letter", "10a0", false},
		{"two", "2000", false},
		{"space", " 100", false},
		{"multibyte", "100é", false},
		{"names", "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, sec.ValidRoleCode(tt.code))

			_, err := sec.ParseRoleCode(tt.code)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, sec.ErrMalformed)
			}
		})
	}
}

/*
TestRoleCode_Positions verifies that each role maps to its fixed character index.
*/
func TestRoleCode_Positions(t *testing.T) {
	assert.Equal(t, "1000", sec.NewRoleCode(sec.RoleLearner).String())
	assert.Equal(t, "0100", sec.NewRoleCode(sec.RoleTeacher).String())
	assert.Equal(t, "0010", sec.NewRoleCode(sec.RoleConceptor).String())
	assert.Equal(t, "0001", sec.NewRoleCode(sec.RoleAdmin).String())
	assert.Equal(t, "1000", sec.DefaultRoleCode.String())

	code, err := sec.ParseRoleCode("0110")
	require.NoError(t, err)
	assert.Equal(t, []sec.Role{sec.RoleTeacher, sec.RoleConceptor}, code.Roles())
	assert.False(t, code.IsAdmin())
	assert.True(t, code.Has(sec.RoleTeacher))
	assert.False(t, code.Has(sec.Role(9)))
}

/*
TestRoleCode_WithWithout verifies that mutators return new values and leave the receiver alone.
*/
func TestRoleCode_WithWithout(t *testing.T) {
	original := sec.DefaultRoleCode

	promoted := original.With(sec.RoleTeacher)
	assert.Equal(t, "1100", promoted.String())
	assert.Equal(t, "1000", original.String())

	demoted := promoted.Without(sec.RoleLearner)
	assert.Equal(t, "0100", demoted.String())
	assert.Equal(t, "1100", promoted.String())

	assert.Equal(t, original, original.With(sec.Role(7)))
}

/*
TestRoleCode_RoundTrip verifies that every valid wire string survives parse and render.
*/
func TestRoleCode_RoundTrip(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		code := sec.RoleCode(mask)
		parsed, err := sec.ParseRoleCode(code.String())
		require.NoError(t, err)
		assert.Equal(t, code, parsed)
	}
}

/*
TestRoleCode_JSON verifies that the 4-character string is the JSON representation.
*/
func TestRoleCode_JSON(t *testing.T) {
	type payload struct {
		Role sec.RoleCode `json:"role"`
	}

	encoded, err := json.Marshal(payload{Role: sec.NewRoleCode(sec.RoleAdmin)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"0001"}`, string(encoded))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"role":"0110"}`), &decoded))
	assert.Equal(t, "0110", decoded.Role.String())

	err = json.Unmarshal([]byte(`{"role":"01"}`), &decoded)
	assert.ErrorIs(t, err, sec.ErrMalformed)
}

/*
TestRoleCode_Scan verifies the storage boundary rejects corrupt rows.
*/
func TestRoleCode_Scan(t *testing.T) {
	var code sec.RoleCode

	require.NoError(t, code.Scan("0101"))
	assert.Equal(t, "0101", code.String())

	require.NoError(t, code.Scan([]byte("1000")))
	assert.Equal(t, sec.DefaultRoleCode, code)

	assert.ErrorIs(t, code.Scan("x"), sec.ErrMalformed)
	assert.ErrorIs(t, code.Scan(nil), sec.ErrMalformed)
	assert.Error(t, code.Scan(42))

	value, err := sec.NewRoleCode(sec.RoleTeacher).Value()
	require.NoError(t, err)
	assert.Equal(t, "0100", value)
}

/*
TestParseRole resolves role names case-insensitively.
*/
func TestParseRole(t *testing.T) {
	role, err := sec.ParseRole(" Teacher ")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleTeacher, role)
	assert.Equal(t, "teacher", role.String())

	_, err = sec.ParseRole("owner")
	assert.Error(t, err)
}
