package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireReturnsFirstMissingField(t *testing.T) {
	err := Require(
		Field("userId", true),
		Field("title", false),
		Field("description", false),
	)
	require.Error(t, err)
	require.EqualError(t, err, "missing title")

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "title", missing.Field)
}

func TestRequireAllPresent(t *testing.T) {
	err := Require(
		Field("userId", true),
		Field("quizIds", true),
	)
	require.NoError(t, err)
}

func TestZeroFoundMessage(t *testing.T) {
	err := ZeroFound("quizId")
	require.EqualError(t, err, "0 quizId found")
}

func TestEmptyMessage(t *testing.T) {
	err := Empty("assessmentQuizzes")
	require.EqualError(t, err, "assessmentQuizzes is empty")
}

func TestIsDomainError(t *testing.T) {
	require.True(t, IsDomainError(&MissingFieldError{Field: "userId"}))
	require.True(t, IsDomainError(ZeroFound("quizId")))
	require.False(t, IsDomainError(nil))
}
