package usecase_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/entity"
	repomocks "github.com/bnema/ico256/internal/domain/repository/mocks"
)

func newConvertFile(
	fs *fakeFileSystem,
	writer *recordingWriter,
	history *usecase.ManageHistoryUseCase,
) *usecase.ConvertFileUseCase {
	return usecase.NewConvertFileUseCase(
		usecase.NewLoadSourceUseCase(fs, nil, fakeSniffer{}),
		usecase.NewConvertImageUseCase(&fakeDecoder{img: solidImage(100, 60, opaqueRed)}, &pngEncoder{}, 0),
		usecase.NewExportBundleUseCase(writer, fs),
		history,
	)
}

func TestConvertFileUseCase_FullCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockConversionRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().Prune(gomock.Any(), 5).Return(int64(0), nil)

	fs := &fakeFileSystem{files: map[string][]byte{"/in/logo.png": []byte("png")}}
	writer := newRecordingWriter()
	uc := newConvertFile(fs, writer, usecase.NewManageHistoryUseCase(repo, 5))

	out, err := uc.Execute(testContext(), usecase.ConvertFileInput{Ref: "/in/logo.png", OutputDir: "/out"})
	require.NoError(t, err)

	assert.Equal(t, "image/png", out.Source.MediaType)
	assert.Len(t, out.Run.Artifacts, 6)
	assert.Equal(t, filepath.Join("/out", "logo"), out.Export.Path)
	assert.Contains(t, writer.dirs, out.Export.Path)
	require.NotNil(t, out.Record)
	assert.Equal(t, out.Export.Path, out.Record.ExportPath)
	assert.Equal(t, int64(3), out.Record.SourceBytes)
}

func TestConvertFileUseCase_HistoryFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockConversionRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(assert.AnError)

	fs := &fakeFileSystem{files: map[string][]byte{"/in/logo.png": []byte("png")}}
	uc := newConvertFile(fs, newRecordingWriter(), usecase.NewManageHistoryUseCase(repo, 5))

	out, err := uc.Execute(testContext(), usecase.ConvertFileInput{Ref: "/in/logo.png", OutputDir: "/out"})
	require.NoError(t, err)
	assert.Nil(t, out.Record)
	assert.NotNil(t, out.Export)
}

func TestConvertFileUseCase_RejectedSourceWritesNothing(t *testing.T) {
	fs := &fakeFileSystem{files: map[string][]byte{"/in/anim.gif": []byte("GIF89a")}}
	writer := newRecordingWriter()
	uc := newConvertFile(fs, writer, nil)

	out, err := uc.Execute(testContext(), usecase.ConvertFileInput{Ref: "/in/anim.gif", OutputDir: "/out"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Nil(t, out)
	assert.Empty(t, writer.dirs)
	assert.Empty(t, writer.zips)
}
