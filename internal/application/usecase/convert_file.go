package usecase

import (
	"context"

	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/logging"
)

// ConvertFileInput drives a full load, convert, export and record cycle.
type ConvertFileInput struct {
	Ref            string
	OutputDir      string
	Background     entity.Background
	Sizes          []entity.IconSize
	Layout         bundle.Layout
	Zip            bool
	KeepExisting   bool
	MaxSourceBytes int64
}

// ConvertFileOutput carries everything produced by one cycle.
type ConvertFileOutput struct {
	Source *Source
	Run    *entity.ConversionRun
	Export *ExportBundleOutput
	// Record is nil when history is disabled or could not be written.
	Record *entity.ConversionRecord
}

// ConvertFileUseCase chains the source, conversion, export and history use cases.
type ConvertFileUseCase struct {
	load    *LoadSourceUseCase
	convert *ConvertImageUseCase
	export  *ExportBundleUseCase
	history *ManageHistoryUseCase
}

// NewConvertFileUseCase creates a new ConvertFileUseCase. history may be nil.
func NewConvertFileUseCase(
	load *LoadSourceUseCase,
	convert *ConvertImageUseCase,
	export *ExportBundleUseCase,
	history *ManageHistoryUseCase,
) *ConvertFileUseCase {
	return &ConvertFileUseCase{load: load, convert: convert, export: export, history: history}
}

// Execute runs the cycle. History failures are logged, not returned.
func (uc *ConvertFileUseCase) Execute(ctx context.Context, input ConvertFileInput) (*ConvertFileOutput, error) {
	ctx = logging.WithSource(ctx, input.Ref)
	log := logging.FromContext(ctx)

	src, err := uc.load.Execute(ctx, LoadSourceInput{Ref: input.Ref, MaxSourceBytes: input.MaxSourceBytes})
	if err != nil {
		return nil, err
	}

	run, err := uc.convert.Execute(ctx, ConvertImageInput{
		Data:           src.Data,
		MediaType:      src.MediaType,
		Name:           src.Name,
		Background:     input.Background,
		Sizes:          input.Sizes,
		MaxSourceBytes: input.MaxSourceBytes,
	})
	if err != nil {
		return nil, err
	}

	exported, err := uc.export.Execute(ctx, ExportBundleInput{
		Run:          run,
		OutputDir:    input.OutputDir,
		Layout:       input.Layout,
		Zip:          input.Zip,
		KeepExisting: input.KeepExisting,
	})
	if err != nil {
		return nil, err
	}

	out := &ConvertFileOutput{Source: src, Run: run, Export: exported}
	if uc.history != nil {
		record, err := uc.history.Record(ctx, run, int64(len(src.Data)), exported.Path)
		if err != nil {
			log.Warn().Err(err).Msg("failed to record conversion history")
		}
		out.Record = record
	}
	return out, nil
}
