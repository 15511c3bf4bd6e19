package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/ico"
	"github.com/bnema/ico256/internal/domain/render"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/domain/validation"
	"github.com/bnema/ico256/internal/logging"
)

const previewPrefix = "data:image/png;base64,"

// ConvertImageInput contains the source of one conversion.
type ConvertImageInput struct {
	Data []byte
	// MediaType is the type the source declares (extension, header or part type).
	MediaType string
	Name      string
	// Background defaults to white.
	Background entity.Background
	// Sizes defaults to every standard size.
	Sizes []entity.IconSize
	// MaxSourceBytes lowers the source ceiling when positive.
	MaxSourceBytes int64
}

// ConvertImageUseCase runs the image-to-icon pipeline: validate, decode,
// normalize once, then resample and encode every size in parallel.
type ConvertImageUseCase struct {
	decoder port.ImageDecoder
	encoder port.RasterEncoder
	workers int
	now     func() time.Time
}

// NewConvertImageUseCase creates a new ConvertImageUseCase.
// workers <= 0 uses GOMAXPROCS.
func NewConvertImageUseCase(decoder port.ImageDecoder, encoder port.RasterEncoder, workers int) *ConvertImageUseCase {
	return &ConvertImageUseCase{
		decoder: decoder,
		encoder: encoder,
		workers: workers,
		now:     time.Now,
	}
}

// Execute converts one source into a ConversionRun.
//
// Validation failures return before the decoder is called. A size that fails
// is dropped from the run and listed in Failures; the run fails with
// entity.ErrNoArtifacts only when no size succeeds.
func (uc *ConvertImageUseCase) Execute(ctx context.Context, input ConvertImageInput) (*entity.ConversionRun, error) {
	started := uc.now()
	runID := newRunID()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.FromContext(ctx)

	mediaType := validation.NormalizeMediaType(input.MediaType)
	if err := validation.ValidateSource(mediaType, int64(len(input.Data)), input.MaxSourceBytes); err != nil {
		log.Debug().Err(err).Str("media_type", mediaType).Int("bytes", len(input.Data)).Msg("source rejected")
		return nil, err
	}

	sizes, err := requestedSizes(input.Sizes)
	if err != nil {
		return nil, err
	}
	bg := input.Background
	if bg == "" {
		bg = entity.BackgroundWhite
	}

	img, err := uc.decoder.Decode(ctx, input.Data, mediaType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mediaType, err)
	}
	log.Debug().
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("source decoded")

	base, err := render.Normalize(img, bg)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("base_edge", base.Edge()).Str("background", string(bg)).Msg("base normalized")

	artifacts, failures, err := uc.renderSizes(ctx, base, sizes)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f
		}
		return nil, fmt.Errorf("%w: %w", entity.ErrNoArtifacts, errors.Join(errs...))
	}

	done := make([]entity.IconSize, len(artifacts))
	surfaces := make(map[entity.IconSize]*entity.Surface, len(artifacts))
	for i, a := range artifacts {
		done[i] = a.Size
		surfaces[a.Size] = a.Surface
	}
	container, entries, err := ico.EncodeMulti(done, surfaces)
	if err != nil {
		return nil, fmt.Errorf("encode icon container: %w", err)
	}

	name := source.DefaultName
	if input.Name != "" {
		name = source.SanitizeName(input.Name)
	}

	run := &entity.ConversionRun{
		ID:           runID,
		SourceName:   name,
		MediaType:    mediaType,
		SourceDigest: SourceDigest(input.Data),
		Background:   bg,
		BaseEdge:     base.Edge(),
		CreatedAt:    started.UTC(),
		Artifacts:    artifacts,
		ICO:          container,
		Entries:      entries,
		Failures:     failures,
	}

	log.Info().
		Str("source", name).
		Str("sizes", entity.FormatSizes(done)).
		Int("failed", len(failures)).
		Int("ico_bytes", len(container)).
		Dur("elapsed", uc.now().Sub(started)).
		Msg("conversion complete")

	return run, nil
}

// renderSizes runs one branch per size. Branches only read base.
func (uc *ConvertImageUseCase) renderSizes(
	ctx context.Context,
	base *entity.Surface,
	sizes []entity.IconSize,
) ([]*entity.Artifact, []*entity.SizeError, error) {
	results := make([]*entity.Artifact, len(sizes))
	errs := make([]error, len(sizes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workerLimit())
	for i, size := range sizes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = uc.renderSize(gctx, base, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		artifacts []*entity.Artifact
		failures  []*entity.SizeError
	)
	for i, size := range sizes {
		if errs[i] != nil {
			logging.FromContext(ctx).Warn().Err(errs[i]).Int("size", int(size)).Msg("size dropped from run")
			failures = append(failures, &entity.SizeError{Size: size, Err: errs[i]})
			continue
		}
		artifacts = append(artifacts, results[i])
	}
	return artifacts, failures, nil
}

func (uc *ConvertImageUseCase) renderSize(ctx context.Context, base *entity.Surface, size entity.IconSize) (*entity.Artifact, error) {
	ctx = logging.WithSize(ctx, int(size))
	log := logging.FromContext(ctx)

	surface, err := render.Resample(base, size)
	if err != nil {
		return nil, err
	}

	pngData, err := uc.encoder.EncodePNG(ctx, surface.Image())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrEncodingFailure, err)
	}
	if len(pngData) == 0 {
		return nil, fmt.Errorf("%w: raster export returned no data", entity.ErrEncodingFailure)
	}

	icoData, err := ico.EncodeSingle(surface)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("png_bytes", len(pngData)).Int("ico_bytes", len(icoData)).Msg("size rendered")

	return &entity.Artifact{
		Size:    size,
		Surface: surface,
		PNG:     pngData,
		ICO:     icoData,
		Preview: PreviewDataURL(pngData),
	}, nil
}

func (uc *ConvertImageUseCase) workerLimit() int {
	if uc.workers > 0 {
		return uc.workers
	}
	return runtime.GOMAXPROCS(0)
}

// requestedSizes returns sizes ascending and deduplicated, or every standard
// size when none are given.
func requestedSizes(sizes []entity.IconSize) ([]entity.IconSize, error) {
	if len(sizes) == 0 {
		return entity.StandardSizes(), nil
	}
	out := slices.Clone(sizes)
	for _, s := range out {
		if !s.IsStandard() {
			return nil, fmt.Errorf("%w: unsupported size %d (supported: %s)",
				entity.ErrInvalidInput, int(s), entity.FormatSizes(entity.StandardSizes()))
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// PreviewDataURL embeds PNG bytes in a data URL.
func PreviewDataURL(pngData []byte) string {
	return previewPrefix + base64.StdEncoding.EncodeToString(pngData)
}

// SourceDigest returns the hex BLAKE2b-256 digest of source bytes.
func SourceDigest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newRunID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%016x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
