package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/entity"
	repomocks "github.com/bnema/ico256/internal/domain/repository/mocks"
	"github.com/bnema/ico256/internal/infrastructure/decoder"
	"github.com/bnema/ico256/internal/infrastructure/encoder"
	"github.com/bnema/ico256/internal/infrastructure/export"
	"github.com/bnema/ico256/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type upload struct {
	filename    string
	contentType string
	data        []byte
	fields      map[string]string
}

func multipartBody(t *testing.T, u upload) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for k, v := range u.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if u.data != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, u.filename))
		header.Set("Content-Type", u.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

type testServer struct {
	handler http.Handler
	repo    *repomocks.MockConversionRepository
}

func newTestServer(t *testing.T, withHistory bool, maxBytes int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockConversionRepository(ctrl)

	var history *usecase.ManageHistoryUseCase
	if withHistory {
		history = usecase.NewManageHistoryUseCase(repo, 5)
	}

	convert := usecase.NewConvertImageUseCase(decoder.NewDecoder(0, 0), encoder.NewPNGEncoder(png.BestSpeed), 2)
	srv := NewServer(convert, history, export.NewWriter(), Options{
		Background:     entity.BackgroundWhite,
		MaxSourceBytes: maxBytes,
	})
	return &testServer{handler: srv.Handler(testContext()), repo: repo}
}

func (ts *testServer) expectRecord() {
	ts.repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *entity.ConversionRecord) error {
			r.ID = 1
			return nil
		})
	ts.repo.EXPECT().Prune(gomock.Any(), 5).Return(int64(0), nil)
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) post(t *testing.T, query string, u upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, u)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert"+query, body)
	req.Header.Set("Content-Type", contentType)
	return ts.do(t, req)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false, 0)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", resp.Data["status"])
}

func TestConvert_ICO(t *testing.T) {
	ts := newTestServer(t, true, 0)
	ts.expectRecord()

	rec := ts.post(t, "", upload{filename: "logo.png", contentType: "image/png", data: pngBytes(t, 40, 20)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "image/x-icon", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "logo.ico")

	body := rec.Body.Bytes()
	require.Greater(t, len(body), 6)
	assert.Equal(t, []byte{0, 0, 1, 0, 6, 0}, body[:6])
}

func TestConvert_JSON(t *testing.T) {
	ts := newTestServer(t, false, 0)

	rec := ts.post(t, "?format=json", upload{
		filename:    "mark.png",
		contentType: "image/png",
		data:        pngBytes(t, 30, 30),
		fields:      map[string]string{"background": "transparent", "sizes": "32,16"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool              `json:"success"`
		Data    ConversionSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, entity.BackgroundTransparent, resp.Data.Background)
	assert.Equal(t, "mark.png", resp.Data.SourceName)
	require.Len(t, resp.Data.Sizes, 2)
	assert.Equal(t, 16, resp.Data.Sizes[0].Size)
	assert.Equal(t, 32, resp.Data.Sizes[1].Size)
	assert.Contains(t, resp.Data.Sizes[0].Preview, "data:image/png;base64,")
	assert.Len(t, resp.Data.Entries, 2)
	assert.Positive(t, resp.Data.ICOBytes)
}

func TestConvert_Zip(t *testing.T) {
	ts := newTestServer(t, false, 0)

	rec := ts.post(t, "?format=zip", upload{filename: "logo.png", contentType: "image/png", data: pngBytes(t, 16, 16)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["Windows/favicon.ico"])
	assert.True(t, names["PNG-Universal/icon-256x256.png"])
}

func TestConvert_Errors(t *testing.T) {
	valid := func(t *testing.T) []byte { return pngBytes(t, 8, 8) }

	tests := []struct {
		name     string
		query    string
		maxBytes int64
		upload   func(t *testing.T) upload
		status   int
		code     string
	}{
		{
			name:   "unsupported media type",
			upload: func(t *testing.T) upload { return upload{filename: "a.gif", contentType: "image/gif", data: valid(t)} },
			status: http.StatusUnsupportedMediaType,
			code:   "UNSUPPORTED_MEDIA_TYPE",
		},
		{
			name:     "too large",
			maxBytes: 10,
			upload:   func(t *testing.T) upload { return upload{filename: "a.png", contentType: "image/png", data: valid(t)} },
			status:   http.StatusRequestEntityTooLarge,
			code:     "SOURCE_TOO_LARGE",
		},
		{
			name: "too many pixels",
			upload: func(t *testing.T) upload {
				var buf bytes.Buffer
				enc := png.Encoder{CompressionLevel: png.BestSpeed}
				require.NoError(t, enc.Encode(&buf, image.NewGray(image.Rect(0, 0, 8192, 8192))))
				return upload{filename: "flat.png", contentType: "image/png", data: buf.Bytes()}
			},
			status: http.StatusRequestEntityTooLarge,
			code:   "SOURCE_TOO_MANY_PIXELS",
		},
		{
			name:   "empty",
			upload: func(*testing.T) upload { return upload{filename: "a.png", contentType: "image/png", data: []byte{}} },
			status: http.StatusBadRequest,
			code:   "EMPTY_SOURCE",
		},
		{
			name: "undecodable",
			upload: func(*testing.T) upload {
				return upload{filename: "a.png", contentType: "image/png", data: []byte("definitely not an image")}
			},
			status: http.StatusUnprocessableEntity,
			code:   "UNDECODABLE_SOURCE",
		},
		{
			name:   "missing file",
			upload: func(*testing.T) upload { return upload{fields: map[string]string{"background": "white"}} },
			status: http.StatusBadRequest,
			code:   "MISSING_FILE",
		},
		{
			name:   "bad format",
			query:  "?format=gif",
			upload: func(t *testing.T) upload { return upload{filename: "a.png", contentType: "image/png", data: valid(t)} },
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name: "bad background",
			upload: func(t *testing.T) upload {
				return upload{filename: "a.png", contentType: "image/png", data: valid(t),
					fields: map[string]string{"background": "purple"}}
			},
			status: http.StatusBadRequest,
			code:   "INVALID_BACKGROUND",
		},
		{
			name: "bad sizes",
			upload: func(t *testing.T) upload {
				return upload{filename: "a.png", contentType: "image/png", data: valid(t),
					fields: map[string]string{"sizes": "20"}}
			},
			status: http.StatusBadRequest,
			code:   "INVALID_SIZES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// History is enabled; failed requests must not record anything.
			ts := newTestServer(t, true, tt.maxBytes)

			rec := ts.post(t, tt.query, tt.upload(t))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestListConversions(t *testing.T) {
	records := []*entity.ConversionRecord{
		{ID: 2, RunID: "b", SourceName: "b.png"},
		{ID: 1, RunID: "a", SourceName: "a.png"},
	}

	t.Run("default limit", func(t *testing.T) {
		ts := newTestServer(t, true, 0)
		ts.repo.EXPECT().GetRecent(gomock.Any(), 5).Return(records, nil)

		rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/conversions", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []*entity.ConversionRecord `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "b", resp.Data[0].RunID)
	})

	t.Run("explicit limit", func(t *testing.T) {
		ts := newTestServer(t, true, 0)
		ts.repo.EXPECT().GetRecent(gomock.Any(), 1).Return(records[:1], nil)

		rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/conversions?limit=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		ts := newTestServer(t, true, 0)

		rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/conversions?limit=zero", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, rec).Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		ts := newTestServer(t, true, 0)
		ts.repo.EXPECT().GetRecent(gomock.Any(), 5).Return(nil, errors.New("locked"))

		rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/conversions", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("history disabled", func(t *testing.T) {
		ts := newTestServer(t, false, 0)

		rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/conversions", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})
}

func TestRespondConversionError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"media type", &entity.ValidationError{Rule: entity.RuleMediaType}, http.StatusUnsupportedMediaType},
		{"max size", &entity.ValidationError{Rule: entity.RuleMaxSize}, http.StatusRequestEntityTooLarge},
		{"empty", &entity.ValidationError{Rule: entity.RuleEmpty}, http.StatusBadRequest},
		{"max pixels", &entity.ValidationError{Rule: entity.RuleMaxPixels}, http.StatusRequestEntityTooLarge},
		{"body limit", &http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{"undecodable", fmt.Errorf("decode: %w", entity.ErrUndecodable), http.StatusUnprocessableEntity},
		{"dimensions", entity.ErrInvalidImageDimensions, http.StatusUnprocessableEntity},
		{"no artifacts", entity.ErrNoArtifacts, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/convert", nil)

			respondConversionError(c, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
