package entity_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurface_RejectsZeroArea(t *testing.T) {
	_, err := entity.NewSurface(0, 10)
	require.ErrorIs(t, err, entity.ErrInvalidImageDimensions)

	_, err = entity.NewSquareSurface(-1)
	require.ErrorIs(t, err, entity.ErrInvalidImageDimensions)
}

func TestSurfaceFromImage_ReanchorsAtOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 22))
	src.SetNRGBA(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	s, err := entity.SurfaceFromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 2, s.Height())
	assert.False(t, s.IsSquare())
	assert.Equal(t, 0, s.Edge())
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, s.NRGBAAt(0, 0))
}

func TestSurface_CloneIsIndependent(t *testing.T) {
	s, err := entity.NewSquareSurface(3)
	require.NoError(t, err)
	s.Fill(color.NRGBA{R: 9, A: 255})

	c := s.Clone()
	c.SetNRGBA(1, 1, color.NRGBA{B: 7, A: 255})

	assert.Equal(t, color.NRGBA{R: 9, A: 255}, s.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{B: 7, A: 255}, c.NRGBAAt(1, 1))
	assert.Equal(t, 3, c.Edge())
}

func TestConversionRun_FirstAtLeast(t *testing.T) {
	run := &entity.ConversionRun{Artifacts: []*entity.Artifact{
		{Size: entity.Size16}, {Size: entity.Size64}, {Size: entity.Size256},
	}}

	assert.Equal(t, entity.Size64, run.FirstAtLeast(48).Size)
	assert.Equal(t, entity.Size256, run.FirstAtLeast(192).Size)
	assert.Nil(t, run.FirstAtLeast(512))
	assert.Equal(t, []entity.IconSize{16, 64, 256}, run.Sizes())
	assert.Nil(t, run.Artifact(entity.Size32))
}
