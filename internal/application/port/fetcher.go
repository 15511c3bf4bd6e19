package port

import "context"

// FetchedSource is a remote source downloaded into memory.
type FetchedSource struct {
	URL       string
	Name      string
	MediaType string
	Data      []byte
}

// SourceFetcher downloads remote sources. Implementations read at most
// limit+1 bytes so oversized bodies are detectable without buffering them.
type SourceFetcher interface {
	Fetch(ctx context.Context, url string, limit int64) (*FetchedSource, error)
}
