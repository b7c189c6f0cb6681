package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("nil transaction leaves context unchanged", func(t *testing.T) {
		assert.Equal(t, ctx, WithTx(ctx, nil))
		_, ok := From(ctx)
		assert.False(t, ok)
	})

	t.Run("stored transaction is returned", func(t *testing.T) {
		stored := &sql.Tx{}
		got, ok := From(WithTx(ctx, stored))
		assert.True(t, ok)
		assert.Same(t, stored, got)
	})
}
