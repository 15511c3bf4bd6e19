package entity

import "time"

// ConversionRecord is the persisted summary of a conversion run.
// It carries no pixel data; exports live on disk at ExportPath.
type ConversionRecord struct {
	ID           int64      `json:"id"`
	RunID        string     `json:"run_id"`
	SourceName   string     `json:"source_name"`
	MediaType    string     `json:"media_type"`
	SourceBytes  int64      `json:"source_bytes"`
	SourceDigest string     `json:"source_digest"`
	Background   Background `json:"background"`
	Sizes        []IconSize `json:"sizes"`
	IcoBytes     int64      `json:"ico_bytes"`
	ExportPath   string     `json:"export_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HistoryStats summarizes stored conversions.
type HistoryStats struct {
	TotalRuns     int64     `json:"total_runs"`
	TotalIcoBytes int64     `json:"total_ico_bytes"`
	LastRun       time.Time `json:"last_run"`
}
