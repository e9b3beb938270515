package common

import (
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePointer(t *testing.T) {
	assert.Equal(t, linalg.Vector2{0.5, 0.25}, NormalizePointer(400, 150, 800, 600))
	assert.Equal(t, linalg.Vector2{1, 0}, NormalizePointer(900, -1, 800, 600))
	assert.Equal(t, linalg.Vector2{}, NormalizePointer(10, 10, 0, 600))
}

func TestKeyCodeDigit(t *testing.T) {
	d, ok := Key7.Digit()
	assert.True(t, ok)
	assert.Equal(t, 7, d)
	_, ok = KeyW.Digit()
	assert.False(t, ok)
	assert.True(t, KeyRightShift.IsShift())
	assert.False(t, KeyLeftControl.IsShift())
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestClampOrdered(t *testing.T) {
	assert.Equal(t, 4, ClampOrdered(9, 1, 4))
	assert.Equal(t, 1, ClampOrdered(-3, 1, 4))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]uint32{1, 2, 3}), 12)
}
