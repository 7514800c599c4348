package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type shade int

func (s shade) String() string {
	return [...]string{"light", "dark"}[s]
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, [3]float32{1, 1, 1}, Coalesce([3]float32{}, [3]float32{1, 1, 1}))
}

func TestParseNamed(t *testing.T) {
	s, ok := ParseNamed("DARK", shade(0), shade(1))
	assert.True(t, ok)
	assert.Equal(t, shade(1), s)

	_, ok = ParseNamed("dim", shade(0), shade(1))
	assert.False(t, ok)
}
