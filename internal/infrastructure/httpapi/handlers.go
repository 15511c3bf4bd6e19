package httpapi

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/logging"
)

const (
	formatICO  = "ico"
	formatZip  = "zip"
	formatJSON = "json"
)

// SizeSummary describes one rendered size.
type SizeSummary struct {
	Size     int    `json:"size"`
	PNGBytes int    `json:"png_bytes"`
	ICOBytes int    `json:"ico_bytes"`
	Preview  string `json:"preview"`
}

// ConversionSummary is the JSON rendition of a conversion run.
type ConversionSummary struct {
	ID         string                  `json:"id"`
	SourceName string                  `json:"source_name"`
	MediaType  string                  `json:"media_type"`
	Background entity.Background       `json:"background"`
	BaseEdge   int                     `json:"base_edge"`
	ICOBytes   int                     `json:"ico_bytes"`
	Sizes      []SizeSummary           `json:"sizes"`
	Entries    []entity.DirectoryEntry `json:"entries"`
	Failures   []string                `json:"failures,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

func summarize(run *entity.ConversionRun) ConversionSummary {
	summary := ConversionSummary{
		ID:         run.ID,
		SourceName: run.SourceName,
		MediaType:  run.MediaType,
		Background: run.Background,
		BaseEdge:   run.BaseEdge,
		ICOBytes:   len(run.ICO),
		Sizes:      make([]SizeSummary, 0, len(run.Artifacts)),
		Entries:    run.Entries,
		CreatedAt:  run.CreatedAt,
	}
	for _, a := range run.Artifacts {
		summary.Sizes = append(summary.Sizes, SizeSummary{
			Size:     int(a.Size),
			PNGBytes: len(a.PNG),
			ICOBytes: len(a.ICO),
			Preview:  a.Preview,
		})
	}
	for _, f := range run.Failures {
		summary.Failures = append(summary.Failures, f.Error())
	}
	return summary
}

func healthHandler(c *gin.Context) {
	respondSuccess(c, map[string]any{
		"status":  "healthy",
		"service": "ico256",
	}, "")
}

func (s *Server) convertHandler(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx)
	limit := s.opts.MaxSourceBytes

	format := strings.ToLower(c.DefaultQuery("format", formatICO))
	if format != formatICO && format != formatZip && format != formatJSON {
		respondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be ico, zip or json", format)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondConversionError(c, err)
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required", err.Error())
		return
	}

	background := s.opts.Background
	if raw, ok := c.GetPostForm("background"); ok {
		if background, err = entity.ParseBackground(raw); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_BACKGROUND", "invalid background", err.Error())
			return
		}
	}

	sizes := s.opts.Sizes
	if raw := c.PostForm("sizes"); raw != "" {
		if sizes, err = entity.ParseIconSizes([]string{raw}); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_SIZES", "invalid sizes", err.Error())
			return
		}
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "cannot read upload", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "cannot read upload", err.Error())
		return
	}

	run, err := s.convert.Execute(ctx, usecase.ConvertImageInput{
		Data:           data,
		MediaType:      header.Header.Get("Content-Type"),
		Name:           header.Filename,
		Background:     background,
		Sizes:          sizes,
		MaxSourceBytes: limit,
	})
	if err != nil {
		respondConversionError(c, err)
		return
	}

	if s.history != nil {
		if _, err := s.history.Record(ctx, run, int64(len(data)), ""); err != nil {
			log.Warn().Err(err).Msg("failed to record conversion history")
		}
	}

	stem := source.Stem(run.SourceName)
	switch format {
	case formatJSON:
		respondSuccess(c, summarize(run), "")

	case formatZip:
		files, err := bundle.Plan(run, s.opts.Layout)
		if err != nil {
			respondConversionError(c, err)
			return
		}
		var buf bytes.Buffer
		if err := s.zipper.EncodeZip(ctx, &buf, files); err != nil {
			respondError(c, http.StatusInternalServerError, "ZIP_FAILED", "cannot build archive", err.Error())
			return
		}
		c.Header("Content-Disposition", attachment(stem+".zip"))
		c.Data(http.StatusOK, "application/zip", buf.Bytes())

	default:
		c.Header("Content-Disposition", attachment(stem+".ico"))
		c.Data(http.StatusOK, "image/x-icon", run.ICO)
	}
}

func (s *Server) listConversionsHandler(c *gin.Context) {
	if s.history == nil {
		respondSuccess(c, []*entity.ConversionRecord{}, "history disabled")
		return
	}

	limit := s.history.MaxEntries()
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", raw)
			return
		}
		limit = n
	}

	records, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "HISTORY_FAILED", "cannot read history", err.Error())
		return
	}
	respondSuccess(c, records, "")
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
