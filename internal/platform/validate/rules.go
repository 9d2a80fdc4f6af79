// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

// engine caches struct metadata and is safe for concurrent use.
var engine = newEngine()

func newEngine() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())

	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"rolecode": func(level validator.FieldLevel) bool {
			return sec.ValidRoleCode(level.Field().String())
		},
		"role": func(level validator.FieldLevel) bool {
			_, err := sec.ParseRole(level.Field().String())
			return err == nil
		},
	}
	for tag, rule := range rules {
		if err := instance.RegisterValidation(tag, rule); err != nil {
			panic(fmt.Sprintf("validate: register %q: %v", tag, err))
		}
	}

	return instance
}

// roleNames is the human list used in the "role" message.
var roleNames = func() string {
	names := make([]string, 0, len(sec.Roles))
	for _, role := range sec.Roles {
		names = append(names, role.String())
	}
	return strings.Join(names, ", ")
}()

func describe(failure validator.FieldError) string {
	switch failure.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Minimum %s characters", failure.Param())
	case "max":
		return fmt.Sprintf("Maximum %s characters", failure.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "rolecode":
		return "Must be a 4-character role code of 0 and 1"
	case "role":
		return "Must be one of: " + roleNames
	default:
		return fmt.Sprintf("Failed the %q rule", failure.Tag())
	}
}
