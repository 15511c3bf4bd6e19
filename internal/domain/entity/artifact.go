package entity

import "time"

// Artifact is everything produced for one icon size in a run.
type Artifact struct {
	Size    IconSize `json:"size"`
	Surface *Surface `json:"-"`
	// PNG is the standalone raster export.
	PNG []byte `json:"-"`
	// ICO is the single-image icon export.
	ICO []byte `json:"-"`
	// Preview is a data URL that can be shown directly by a browser or TUI.
	Preview string `json:"preview,omitempty"`
}

// ConversionRun aggregates the artifacts produced from one source image.
type ConversionRun struct {
	ID           string      `json:"id"`
	SourceName   string      `json:"source_name"`
	MediaType    string      `json:"media_type"`
	SourceDigest string      `json:"source_digest"`
	Background   Background  `json:"background"`
	BaseEdge     int         `json:"base_edge"`
	CreatedAt    time.Time   `json:"created_at"`
	Artifacts    []*Artifact `json:"artifacts"`
	// ICO is the multi-image container holding every artifact.
	ICO []byte `json:"-"`
	// Entries describe the container directory, in file order.
	Entries []DirectoryEntry `json:"entries"`
	// Failures lists sizes that were dropped from the run.
	Failures []*SizeError `json:"-"`
}

// Sizes returns the sizes present in the run, ascending.
func (r *ConversionRun) Sizes() []IconSize {
	sizes := make([]IconSize, len(r.Artifacts))
	for i, a := range r.Artifacts {
		sizes[i] = a.Size
	}
	return sizes
}

// Artifact returns the artifact for size, or nil.
func (r *ConversionRun) Artifact(size IconSize) *Artifact {
	for _, a := range r.Artifacts {
		if a.Size == size {
			return a
		}
	}
	return nil
}

// FirstAtLeast returns the smallest artifact whose size is >= edge, or nil.
func (r *ConversionRun) FirstAtLeast(edge int) *Artifact {
	for _, a := range r.Artifacts {
		if int(a.Size) >= edge {
			return a
		}
	}
	return nil
}

// Record builds the history row describing this run.
func (r *ConversionRun) Record(sourceBytes int64, exportPath string) *ConversionRecord {
	return &ConversionRecord{
		RunID:        r.ID,
		SourceName:   r.SourceName,
		MediaType:    r.MediaType,
		SourceBytes:  sourceBytes,
		SourceDigest: r.SourceDigest,
		Background:   r.Background,
		Sizes:        r.Sizes(),
		IcoBytes:     int64(len(r.ICO)),
		ExportPath:   exportPath,
		CreatedAt:    r.CreatedAt,
	}
}
