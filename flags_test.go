package glint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glint-ml/glint"
)

func TestFlagDefaults(t *testing.T) {
	assert.True(t, glint.Flags.AsyncDispatch.Get())
	assert.True(t, glint.Flags.PjitFastpath.Get())
}

func TestFlagSwapRestore(t *testing.T) {
	prev := glint.Flags.AsyncDispatch.Swap(false)
	assert.True(t, prev)
	assert.False(t, glint.Flags.AsyncDispatch.Get())

	glint.Flags.AsyncDispatch.Set(prev)
	assert.True(t, glint.Flags.AsyncDispatch.Get())
}

func TestSyncDispatchComputesInline(t *testing.T) {
	prev := glint.Flags.AsyncDispatch.Swap(false)
	defer glint.Flags.AsyncDispatch.Set(prev)

	c := glint.New()
	defer c.Close()

	out := glint.Neg(c.Scalar(5))
	assert.Equal(t, -5.0, out.At(0))
}
