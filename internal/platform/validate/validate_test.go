// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Receitaria", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_ExactLen covers the fixed-length rule used for OTP codes.
*/
func TestValidator_ExactLen(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"exact", "Ab3dE9", true},
		{"too_short", "Ab3", false},
		{"too_long", "Ab3dE9x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.ExactLen("code", tt.value, 6)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Matches covers the password confirmation rule.
*/
func TestValidator_Matches(t *testing.T) {
	t.Run("matching_values_pass", func(t *testing.T) {
		v := &validate.Validator{}
		v.Matches("confirm_new_password", "secret1", "new_password", "secret1")
		assert.False(t, v.HasErrors())
	})

	t.Run("mismatching_values_fail", func(t *testing.T) {
		v := &validate.Validator{}
		v.Matches("confirm_new_password", "secret1", "new_password", "secret2")
		assert.True(t, v.HasErrors())
	})
}

/*
TestValidator_OneOf covers the enumeration rule.
*/
func TestValidator_OneOf(t *testing.T) {
	t.Run("allowed_value_passes", func(t *testing.T) {
		v := &validate.Validator{}
		v.OneOf("type", "dessert", "savory", "dessert", "drink")
		assert.False(t, v.HasErrors())
	})

	t.Run("unknown_value_fails", func(t *testing.T) {
		v := &validate.Validator{}
		v.OneOf("type", "frozen", "savory", "dessert", "drink")
		assert.True(t, v.HasErrors())
	})
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "Maria").
		MinLen("name", "Maria", 2).
		MaxLen("name", "Maria", 100).
		Email("email", "maria@receitaria.app").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").           // Fails
		MinLen("name", "a", 5).         // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
