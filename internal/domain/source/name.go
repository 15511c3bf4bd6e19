// Package source derives names and declared media types for conversion sources.
package source

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// DefaultName is used when no valid name can be determined.
const DefaultName = "icon"

// extensionTypes maps the extensions of accepted sources to their media type.
// mime.TypeByExtension depends on the host MIME database, so the accepted set is pinned here.
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".svgz": "image/svg+xml",
}

var preferredExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/jpg":     ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/x-icon":  ".ico",
}

// SanitizeName reduces name to its base so it cannot escape an output directory.
func SanitizeName(name string) string {
	// filepath.Base only splits on the OS separator.
	name = strings.ReplaceAll(name, "\\", "/")

	clean := filepath.Base(name)
	if clean == "." || clean == ".." || clean == "" || clean == "/" {
		return DefaultName
	}
	return clean
}

// Stem returns the sanitized name without its extension.
func Stem(name string) string {
	clean := SanitizeName(name)
	stem := strings.TrimSuffix(clean, filepath.Ext(clean))
	if stem == "" {
		return DefaultName
	}
	return stem
}

// MediaTypeFromName returns the media type implied by name's extension,
// or "" when the extension is unknown.
func MediaTypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		mediaType, _, err := mime.ParseMediaType(mt)
		if err == nil {
			return mediaType
		}
	}
	return ""
}

// ExtensionForMediaType returns a file extension for a media type, or "".
func ExtensionForMediaType(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil || parsed == "" {
		return ""
	}
	if ext, ok := preferredExtensions[parsed]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(parsed)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// NameFromURI extracts the last path segment of a URI, falling back to
// DefaultName plus an extension derived from mediaType.
func NameFromURI(uri, mediaType string) string {
	path := uri
	if parsed, err := url.Parse(uri); err == nil {
		path = parsed.Path
	}

	name := SanitizeName(path)
	if filepath.Ext(name) == "" {
		if ext := ExtensionForMediaType(mediaType); ext != "" {
			return name + ext
		}
	}
	return name
}

// IsRemote reports whether ref is an http or https URL.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// MakeUniqueName returns name, or name with _(N) before the extension when
// dir/name already exists. exists reports whether a path is taken.
func MakeUniqueName(dir, name string, exists func(path string) bool) string {
	if !exists(filepath.Join(dir, name)) {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 1; i < 1000; i++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, i, ext)
		if !exists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}

	return fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
}
