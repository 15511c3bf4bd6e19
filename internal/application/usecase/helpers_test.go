package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"sync"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// fakeDecoder returns a fixed image and counts calls.
type fakeDecoder struct {
	mu    sync.Mutex
	img   image.Image
	err   error
	calls int
}

func (d *fakeDecoder) Decode(_ context.Context, _ []byte, _ string) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.img, d.err
}

func (d *fakeDecoder) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// pngEncoder encodes with image/png; edges listed in empty produce no bytes.
type pngEncoder struct {
	empty map[int]bool
}

func (e *pngEncoder) EncodePNG(_ context.Context, img image.Image) ([]byte, error) {
	if e.empty[img.Bounds().Dx()] {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fakeFileSystem serves files from memory.
type fakeFileSystem struct {
	files      map[string][]byte
	removed    []string
	removeErrs map[string]error
}

func (f *fakeFileSystem) Exists(_ context.Context, path string) (bool, error) {
	_, ok := f.files[path]
	return ok, nil
}

func (*fakeFileSystem) IsDirectory(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeFileSystem) GetSize(_ context.Context, path string) (int64, error) {
	return int64(len(f.files[path])), nil
}

func (f *fakeFileSystem) ReadFile(_ context.Context, path string, limit int64) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	if int64(len(data)) > limit+1 {
		data = data[:limit+1]
	}
	return data, nil
}

func (f *fakeFileSystem) RemoveAll(_ context.Context, path string) error {
	if err := f.removeErrs[path]; err != nil {
		return err
	}
	f.removed = append(f.removed, path)
	delete(f.files, path)
	return nil
}

// fakeFetcher returns a canned response.
type fakeFetcher struct {
	result *port.FetchedSource
	err    error
	urls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ int64) (*port.FetchedSource, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeSniffer recognizes PNG signatures only.
type fakeSniffer struct{}

func (fakeSniffer) Sniff(data []byte) string {
	if bytes.HasPrefix(data, []byte("\x89PNG")) {
		return "image/png"
	}
	return ""
}

// recordingWriter keeps what it was asked to write.
type recordingWriter struct {
	dirs  map[string][]bundle.File
	zips  map[string][]bundle.File
	fails bool
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{dirs: map[string][]bundle.File{}, zips: map[string][]bundle.File{}}
}

func (w *recordingWriter) WriteDir(_ context.Context, dir string, files []bundle.File) error {
	if w.fails {
		return errors.New("disk full")
	}
	w.dirs[dir] = files
	return nil
}

func (w *recordingWriter) WriteZip(_ context.Context, path string, files []bundle.File) error {
	if w.fails {
		return errors.New("disk full")
	}
	w.zips[path] = files
	return nil
}

func (w *recordingWriter) EncodeZip(_ context.Context, out io.Writer, files []bundle.File) error {
	for _, f := range files {
		if _, err := out.Write(f.Data); err != nil {
			return err
		}
	}
	return nil
}
