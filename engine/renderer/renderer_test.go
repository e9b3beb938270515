package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/Carmen-Shannon/rampart/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func litProgram(t *testing.T) renderer.ProgramDesc {
	src, err := shader.Lit()
	require.NoError(t, err)
	return renderer.ProgramDesc{
		Label:         "Lit",
		Kind:          renderer.ProgramKindMain,
		Source:        src,
		VertexEntry:   shader.VertexEntry,
		FragmentEntry: shader.FragmentEntry,
	}
}

func TestCompileProgram(t *testing.T) {
	dev := gputest.NewDevice()
	h, err := renderer.CompileProgram(dev, litProgram(t))
	require.NoError(t, err)
	assert.NotZero(t, h)
	assert.Equal(t, "Lit", dev.Programs[h].Label)
}

func TestCompileProgramBackendFailure(t *testing.T) {
	dev := gputest.NewDevice()
	dev.ProgramErr = errors.New("bad module")

	h, err := renderer.CompileProgram(dev, litProgram(t))
	assert.Zero(t, h, "a failed compile hands back the invalid program")
	if renderer.DebugChecks {
		assert.ErrorContains(t, err, "bad module")
	} else {
		assert.NoError(t, err)
	}
}

func TestCompileProgramValidation(t *testing.T) {
	dev := gputest.NewDevice()
	desc := litProgram(t)
	desc.VertexEntry = "missing_entry"

	h, err := renderer.CompileProgram(dev, desc)
	if renderer.DebugChecks {
		require.ErrorIs(t, err, shader.ErrInvalidSource)
		assert.Zero(t, h)
		assert.Empty(t, dev.Programs)
	} else {
		assert.NoError(t, err)
		assert.NotZero(t, h)
	}
}

func TestCompileProgramPanicsWithoutDevice(t *testing.T) {
	assert.PanicsWithValue(t, "renderer: CompileProgram requires a device", func() {
		_, _ = renderer.CompileProgram(nil, renderer.ProgramDesc{})
	})
}

func TestShadowMapSize(t *testing.T) {
	dev := gputest.NewDevice()
	assert.Equal(t, renderer.MaxShadowMapSize, renderer.ShadowMapSize(dev))
	dev.MaxTexture = 1024
	assert.Equal(t, 1024, renderer.ShadowMapSize(dev))
}

func TestInvalidProgramDrawsAreDropped(t *testing.T) {
	dev := gputest.NewDevice()
	require.NoError(t, dev.BeginPass(renderer.PassDesc{Kind: renderer.PassKindMain}))
	dev.Draw(renderer.DrawCommand{Program: 0, IndexCount: 3})
	require.NoError(t, dev.EndPass())
	require.Len(t, dev.Passes, 1)
	assert.Empty(t, dev.Passes[0].Draws)
	assert.ErrorIs(t, dev.EndPass(), renderer.ErrNoPass)
}
