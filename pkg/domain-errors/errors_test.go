package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("wrapped errors keep their code through fmt wrapping", func(t *testing.T) {
		cause := errors.New("disk full")
		err := fmt.Errorf("saving: %w", Wrap(cause, CodeIO, "An error occurred while writing to the file: disk full"))

		assert.True(t, HasCode(err, CodeIO))
		assert.False(t, HasCode(err, CodeNotFound))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, CodeIO, CodeOf(err))
	})

	t.Run("uncoded errors report internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})

	t.Run("message falls back to cause", func(t *testing.T) {
		err := Wrap(errors.New("boom"), CodeIO, "")
		assert.Equal(t, "boom", err.Error())
	})
}

func TestValidation(t *testing.T) {
	err := Validation([]string{"First Name: Name must not contain spaces.", "Date of Birth: Date of birth cannot be in the future."})

	require.True(t, HasCode(err, CodeValidation))
	assert.Len(t, Fields(err), 2)
	assert.Equal(t, "validation failed", err.Error())

	single := Validation([]string{"Last Name: Name must not contain spaces."})
	assert.Equal(t, "Last Name: Name must not contain spaces.", single.Error())
	assert.Nil(t, Fields(errors.New("plain")))
}
