package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_Union(t *testing.T) {
	assert := assert.New(t)

	s1 := NewStringSet("a", "b")
	s2 := NewStringSet("b", "c")

	got := s1.Union(s2)

	assert.ElementsMatch([]string{"a", "b", "c"}, Ordered(got))
}

func Test_Set_Intersection(t *testing.T) {
	assert := assert.New(t)

	s1 := NewStringSet("a", "b", "c")
	s2 := NewStringSet("b", "c", "d")

	got := s1.Intersection(s2)

	assert.Equal([]string{"b", "c"}, Ordered(got))
}

func Test_OrderedKeys(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"z": 1, "a": 2, "m": 3}

	assert.Equal([]string{"a", "m", "z"}, OrderedKeys(m))
}

func Test_Set_String(t *testing.T) {
	assert := assert.New(t)

	s := NewStringSet("b", "a")

	assert.Equal("{a, b}", s.String())
}
