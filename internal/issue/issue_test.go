package issue

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindRuleViolation, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindInvalidCredentials, http.StatusBadRequest},
		{KindObjectNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthenticated, http.StatusUnauthorized},
		{Kind(0), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestIssueSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create page: %w", RuleViolation("Slug already registered", "slug kibe already registered"))

	is, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindRuleViolation, is.Kind)
	assert.Equal(t, []string{"slug kibe already registered"}, is.Details)
	assert.Equal(t, KindRuleViolation, KindOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestNewNeverNilDetails(t *testing.T) {
	is := Forbidden("Access denied")
	assert.NotNil(t, is.Details)
	assert.Equal(t, "Access denied", is.Error())
}

func TestInvalidCredentialsIsGeneric(t *testing.T) {
	is := InvalidCredentials()
	assert.Equal(t, KindInvalidCredentials, is.Kind)
	assert.Equal(t, "Bad request: invalid email or password", is.Error())
}
