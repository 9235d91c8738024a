package util

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	s := &Stack[int]{}
	_, ok := s.Pop()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{3, 2, 1}, slices.Collect(s.TopDown()))

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, top)

	top, _ = s.Pop()
	assert.Equal(t, 3, top)
	assert.Equal(t, 2, s.Len())
}
