package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewDomainError("NOT_FOUND", "Order 7 not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, "NOT_FOUND", ErrorCode(err))
	assert.Equal(t, "", ErrorCode(errors.New("boom")))
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPaginated([]int{}, 5, 1, 0).TotalPages)
	assert.Equal(t, 10, Filter{Page: 2, PageSize: 10}.Offset())
	assert.Equal(t, 0, Filter{PageSize: 10}.Offset())
}
