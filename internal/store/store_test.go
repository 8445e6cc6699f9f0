package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLookupError(t *testing.T) {
	assert.True(t, IsLookupError(ErrNotFound))
	assert.True(t, IsLookupError(ErrInvalidID))
	assert.True(t, IsLookupError(fmt.Errorf("get book %q: %w", "x", ErrInvalidID)))
	assert.False(t, IsLookupError(errors.New("disk I/O error")))
	assert.False(t, IsLookupError(nil))
}
