package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	s := "portal"
	p := To(s)
	assert.Equal(t, s, *p)
	assert.NotSame(t, &s, p)
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, int64(400), *Int64(400))
	assert.Equal(t, 1.5, *Float64(1.5))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, 0.0, Deref[float64](nil))
	assert.Equal(t, int64(7), Deref(Int64(7)))
}
