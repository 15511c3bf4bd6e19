package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/domain/validation"
	"github.com/bnema/ico256/internal/logging"
)

// genericMediaTypes are declared types too vague to trust.
var genericMediaTypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
	"binary/octet-stream":      true,
	"text/plain":               true,
}

// Source is a conversion source loaded into memory.
type Source struct {
	// Ref is the path or URL the source was loaded from.
	Ref       string
	Name      string
	MediaType string
	Data      []byte
}

// LoadSourceInput identifies a local file or an http(s) URL.
type LoadSourceInput struct {
	Ref            string
	MaxSourceBytes int64
}

// LoadSourceUseCase reads a source and resolves its declared media type:
// file extension for local files, Content-Type for URLs, content sniffing
// when neither says anything useful.
type LoadSourceUseCase struct {
	fs      port.FileSystem
	fetcher port.SourceFetcher
	sniffer port.MediaSniffer
}

// NewLoadSourceUseCase creates a new LoadSourceUseCase.
// A nil fetcher disables remote sources; a nil sniffer disables sniffing.
func NewLoadSourceUseCase(fs port.FileSystem, fetcher port.SourceFetcher, sniffer port.MediaSniffer) *LoadSourceUseCase {
	return &LoadSourceUseCase{fs: fs, fetcher: fetcher, sniffer: sniffer}
}

// Execute loads the source. Sizes are not checked here; the bytes read stop
// one past the ceiling so validation can report the overflow.
func (uc *LoadSourceUseCase) Execute(ctx context.Context, input LoadSourceInput) (*Source, error) {
	log := logging.FromContext(ctx)
	if input.Ref == "" {
		return nil, errors.New("no source given")
	}
	limit := validation.EffectiveLimit(input.MaxSourceBytes)

	var src *Source
	if source.IsRemote(input.Ref) {
		if uc.fetcher == nil {
			return nil, fmt.Errorf("remote sources are not available: %s", input.Ref)
		}
		fetched, err := uc.fetcher.Fetch(ctx, input.Ref, limit)
		if err != nil {
			return nil, err
		}
		src = &Source{
			Ref:       input.Ref,
			Name:      fetched.Name,
			MediaType: validation.NormalizeMediaType(fetched.MediaType),
			Data:      fetched.Data,
		}
		if src.Name == "" {
			src.Name = source.NameFromURI(input.Ref, src.MediaType)
		}
	} else {
		data, err := uc.fs.ReadFile(ctx, input.Ref, limit)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		src = &Source{
			Ref:       input.Ref,
			Name:      source.SanitizeName(input.Ref),
			MediaType: source.MediaTypeFromName(input.Ref),
			Data:      data,
		}
	}

	if genericMediaTypes[src.MediaType] && uc.sniffer != nil {
		if sniffed := uc.sniffer.Sniff(src.Data); sniffed != "" {
			log.Debug().Str("declared", src.MediaType).Str("sniffed", sniffed).Msg("media type taken from content")
			src.MediaType = sniffed
		}
	}

	log.Debug().
		Str("ref", input.Ref).
		Str("name", src.Name).
		Str("media_type", src.MediaType).
		Int("bytes", len(src.Data)).
		Msg("source loaded")
	return src, nil
}
