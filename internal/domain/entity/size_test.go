package entity_test

import (
	"testing"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconSize_Band(t *testing.T) {
	tests := []struct {
		size    entity.IconSize
		band    entity.Band
		sharpen bool
	}{
		{entity.Size16, entity.BandSmall, true},
		{entity.Size32, entity.BandSmall, true},
		{entity.Size48, entity.BandMedium, true},
		{entity.Size64, entity.BandMedium, true},
		{entity.Size128, entity.BandMedium, false},
		{entity.Size256, entity.BandLarge, false},
	}

	for _, tt := range tests {
		t.Run(tt.size.Label(), func(t *testing.T) {
			assert.Equal(t, tt.band, tt.size.Band())
			assert.Equal(t, tt.sharpen, tt.size.NeedsSharpen())
		})
	}
}

func TestStandardSizes_AscendingAndFresh(t *testing.T) {
	sizes := entity.StandardSizes()
	require.Len(t, sizes, 6)
	for i := 1; i < len(sizes); i++ {
		assert.Less(t, sizes[i-1], sizes[i])
	}

	sizes[0] = 999
	assert.Equal(t, entity.Size16, entity.StandardSizes()[0])
}

func TestParseIconSize(t *testing.T) {
	tests := []struct {
		input   string
		want    entity.IconSize
		wantErr bool
	}{
		{input: "16", want: entity.Size16},
		{input: " 256 ", want: entity.Size256},
		{input: "48x48", want: entity.Size48},
		{input: "48X48", want: entity.Size48},
		{input: "48x32", wantErr: true},
		{input: "24", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := entity.ParseIconSize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIconSizes(t *testing.T) {
	got, err := entity.ParseIconSizes([]string{"256,16", "32", "16"})
	require.NoError(t, err)
	assert.Equal(t, []entity.IconSize{16, 32, 256}, got)

	all, err := entity.ParseIconSizes(nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StandardSizes(), all)

	_, err = entity.ParseIconSizes([]string{"16,20"})
	require.Error(t, err)
}

func TestFormatSizes(t *testing.T) {
	assert.Equal(t, "16,32,48", entity.FormatSizes([]entity.IconSize{16, 32, 48}))
	assert.Equal(t, "", entity.FormatSizes(nil))
}

func TestEncodeEdge(t *testing.T) {
	for _, size := range entity.StandardSizes() {
		b := entity.EncodeEdge(int(size))
		if size == entity.Size256 {
			assert.Equal(t, uint8(0), b)
		} else {
			assert.Equal(t, uint8(size), b)
		}
		assert.Equal(t, int(size), entity.DecodeEdge(b))
	}
}
