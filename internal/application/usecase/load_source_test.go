package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/application/usecase"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\nrest")

func TestLoadSourceUseCase_LocalFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     []byte
		wantType string
		wantName string
	}{
		{name: "extension decides", path: "/in/photo.JPG", data: []byte("jpeg"), wantType: "image/jpeg", wantName: "photo.JPG"},
		{name: "svg", path: "/in/logo.svg", data: []byte("<svg/>"), wantType: "image/svg+xml", wantName: "logo.svg"},
		{name: "no extension is sniffed", path: "/in/logo", data: pngMagic, wantType: "image/png", wantName: "logo"},
		{name: "unknown content stays undeclared", path: "/in/blob", data: []byte("???"), wantType: "", wantName: "blob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeFileSystem{files: map[string][]byte{tt.path: tt.data}}
			uc := usecase.NewLoadSourceUseCase(fs, nil, fakeSniffer{})

			src, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, src.MediaType)
			assert.Equal(t, tt.wantName, src.Name)
			assert.Equal(t, tt.data, src.Data)
			assert.Equal(t, tt.path, src.Ref)
		})
	}
}

func TestLoadSourceUseCase_ReadStopsPastLimit(t *testing.T) {
	fs := &fakeFileSystem{files: map[string][]byte{"/in/a.png": make([]byte, 100)}}
	uc := usecase.NewLoadSourceUseCase(fs, nil, nil)

	src, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: "/in/a.png", MaxSourceBytes: 10})
	require.NoError(t, err)
	assert.Len(t, src.Data, 11)
}

func TestLoadSourceUseCase_MissingFile(t *testing.T) {
	uc := usecase.NewLoadSourceUseCase(&fakeFileSystem{}, nil, nil)

	_, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: "/nope.png"})
	assert.ErrorContains(t, err, "read source")
}

func TestLoadSourceUseCase_EmptyRef(t *testing.T) {
	uc := usecase.NewLoadSourceUseCase(&fakeFileSystem{}, nil, nil)

	_, err := uc.Execute(testContext(), usecase.LoadSourceInput{})
	assert.Error(t, err)
}

func TestLoadSourceUseCase_Remote(t *testing.T) {
	t.Run("content type decides", func(t *testing.T) {
		fetcher := &fakeFetcher{result: &port.FetchedSource{
			URL:       "https://example.com/img/logo.webp",
			Name:      "logo.webp",
			MediaType: "image/webp; charset=binary",
			Data:      []byte("RIFF"),
		}}
		uc := usecase.NewLoadSourceUseCase(&fakeFileSystem{}, fetcher, fakeSniffer{})

		src, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: "https://example.com/img/logo.webp"})
		require.NoError(t, err)
		assert.Equal(t, "image/webp", src.MediaType)
		assert.Equal(t, "logo.webp", src.Name)
		assert.Equal(t, []string{"https://example.com/img/logo.webp"}, fetcher.urls)
	})

	t.Run("generic content type is sniffed", func(t *testing.T) {
		fetcher := &fakeFetcher{result: &port.FetchedSource{
			MediaType: "application/octet-stream",
			Data:      pngMagic,
		}}
		uc := usecase.NewLoadSourceUseCase(&fakeFileSystem{}, fetcher, fakeSniffer{})

		src, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: "https://example.com/download"})
		require.NoError(t, err)
		assert.Equal(t, "image/png", src.MediaType)
		assert.Equal(t, "download", src.Name)
	})

	t.Run("fetch error", func(t *testing.T) {
		fetcher := &fakeFetcher{err: assert.AnError}
		uc := usecase.NewLoadSourceUseCase(&fakeFileSystem{}, fetcher, nil)

		_, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: "http://example.com/a.png"})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("no fetcher", func(t *testing.T) {
		uc := usecase.NewLoadSourceUseCase(&fakeFileSystem{}, nil, nil)

		_, err := uc.Execute(testContext(), usecase.LoadSourceInput{Ref: "http://example.com/a.png"})
		assert.ErrorContains(t, err, "remote sources are not available")
	})
}
