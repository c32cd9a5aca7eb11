package paperdex

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	unavailable := &StoreError{Kind: StoreUnavailable, Op: "index.search"}
	notFound := &StoreError{Kind: StoreNotFound, Op: "store.get", Err: errors.New("no row")}

	assert.True(t, IsUnavailable(unavailable))
	assert.False(t, IsUnavailable(notFound))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(unavailable))

	// classification survives wrapping
	wrapped := fmt.Errorf("searching papers: %w", unavailable)
	assert.True(t, IsUnavailable(wrapped))

	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(errors.New("plain")))

	assert.Contains(t, notFound.Error(), "store.get")
	assert.Equal(t, "no row", errors.Unwrap(notFound).Error())
}
