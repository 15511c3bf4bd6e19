package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "logo.png", expected: "logo.png"},
		{name: "spaces", input: "my logo.png", expected: "my logo.png"},
		{name: "parent traversal", input: "../../../etc/passwd", expected: "passwd"},
		{name: "windows separators", input: `C:\Users\me\logo.svg`, expected: "logo.svg"},
		{name: "absolute", input: "/tmp/art/logo.webp", expected: "logo.webp"},
		{name: "dot", input: ".", expected: DefaultName},
		{name: "double dot", input: "..", expected: DefaultName},
		{name: "empty", input: "", expected: DefaultName},
		{name: "root", input: "/", expected: DefaultName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "logo", Stem("/a/b/logo.png"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	assert.Equal(t, DefaultName, Stem(""))
}

func TestMediaTypeFromName(t *testing.T) {
	tests := map[string]string{
		"logo.png":    "image/png",
		"PHOTO.JPG":   "image/jpeg",
		"photo.jpeg":  "image/jpeg",
		"mark.webp":   "image/webp",
		"vector.svg":  "image/svg+xml",
		"no-ext":      "",
		"weird.zzzzq": "",
	}
	for input, want := range tests {
		assert.Equal(t, want, MediaTypeFromName(input), input)
	}
}

func TestExtensionForMediaType(t *testing.T) {
	assert.Equal(t, ".png", ExtensionForMediaType("image/png"))
	assert.Equal(t, ".jpg", ExtensionForMediaType("image/jpeg; charset=binary"))
	assert.Equal(t, ".svg", ExtensionForMediaType("image/svg+xml"))
	assert.Equal(t, "", ExtensionForMediaType(""))
	assert.Equal(t, "", ExtensionForMediaType(";;;"))
}

func TestNameFromURI(t *testing.T) {
	assert.Equal(t, "logo.png", NameFromURI("https://example.com/assets/logo.png?v=2", "image/png"))
	assert.Equal(t, "avatar.webp", NameFromURI("https://example.com/u/avatar", "image/webp"))
	assert.Equal(t, DefaultName+".svg", NameFromURI("https://example.com/", "image/svg+xml"))
	assert.Equal(t, DefaultName, NameFromURI("https://example.com", ""))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/logo.png"))
	assert.True(t, IsRemote("http://localhost:8080/a.svg"))
	assert.False(t, IsRemote("logo.png"))
	assert.False(t, IsRemote("/tmp/logo.png"))
	assert.False(t, IsRemote("file:///tmp/logo.png"))
	assert.False(t, IsRemote("https://"))
}

func TestMakeUniqueName(t *testing.T) {
	dir := "/out"
	taken := map[string]bool{
		filepath.Join(dir, "logo"):     true,
		filepath.Join(dir, "logo_(1)"): true,
	}
	exists := func(p string) bool { return taken[p] }

	assert.Equal(t, "other", MakeUniqueName(dir, "other", exists))
	assert.Equal(t, "logo_(2)", MakeUniqueName(dir, "logo", exists))
}
