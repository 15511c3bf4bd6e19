package decoder

import (
	"bytes"

	"github.com/h2non/filetype"

	"github.com/bnema/ico256/internal/application/port"
)

// svgSniffLen is how far into a document the <svg tag is searched.
const svgSniffLen = 1024

// Sniffer implements port.MediaSniffer with magic-number matching.
type Sniffer struct{}

// NewSniffer creates a new Sniffer.
func NewSniffer() *Sniffer {
	return &Sniffer{}
}

var _ port.MediaSniffer = (*Sniffer)(nil)

// Sniff returns the media type found in data's signature, or "".
func (*Sniffer) Sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if looksLikeSVG(data) {
		return mediaTypeSVG
	}
	return ""
}

// looksLikeSVG reports whether an XML-ish prefix of data opens an <svg element.
func looksLikeSVG(data []byte) bool {
	head := data[:min(len(data), svgSniffLen)]
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimSpace(head)
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}
