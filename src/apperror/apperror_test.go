package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		Internal:        500,
		Validation:      422,
		Unauthorized:    401,
		Forbidden:       403,
		NotFound:        404,
		Conflict:        409,
		AlreadyReported: 418,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(Conflict, "already liked"))

	assert.Equal(t, Conflict, KindOf(err))
	assert.True(t, Is(err, Conflict))
	assert.False(t, Is(err, NotFound))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, "Creating post failed, please try again.")

	assert.Equal(t, Internal, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Creating post failed, please try again.", err.Message)
}
