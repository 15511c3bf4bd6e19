// Package bundle lays out the files exported for a conversion run.
package bundle

import (
	"fmt"
	"path"

	"github.com/bnema/ico256/internal/domain/entity"
)

// ArchiveName is the file name of the zipped bundle.
const ArchiveName = "universal-icons.zip"

// Layout selects how exported files are arranged.
type Layout string

const (
	// LayoutBundle groups files per platform.
	LayoutBundle Layout = "bundle"
	// LayoutFlat writes the container and the per-size files side by side.
	LayoutFlat Layout = "flat"
)

// ParseLayout accepts "bundle" (the default for "") and "flat".
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "", LayoutBundle:
		return LayoutBundle, nil
	case LayoutFlat:
		return LayoutFlat, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want bundle or flat)", s)
	}
}

// Folder names inside the bundle layout.
const (
	DirWindows = "Windows"
	DirPNG     = "PNG-Universal"
	DirAndroid = "Android"
	DirIOS     = "iOS"
)

// ContainerName is the name of the multi-image icon file.
const ContainerName = "favicon.ico"

var (
	androidTargets = []int{48, 72, 96, 144, 192}
	iosTargets     = []int{57, 72, 76, 114, 120, 144, 152, 180}
)

// File is one exported file. Path is slash separated and relative.
type File struct {
	Path string
	Data []byte
}

// Plan returns the files to export for run, in a stable order.
// Platform entries reuse the PNG of the smallest artifact at least as large
// as the target and are skipped when none qualifies.
func Plan(run *entity.ConversionRun, layout Layout) ([]File, error) {
	if run == nil || len(run.Artifacts) == 0 {
		return nil, entity.ErrNoArtifacts
	}
	if len(run.ICO) == 0 {
		return nil, fmt.Errorf("%w: run has no icon container", entity.ErrEncodingFailure)
	}

	if layout == LayoutFlat {
		return planFlat(run), nil
	}

	files := []File{{Path: path.Join(DirWindows, ContainerName), Data: run.ICO}}
	for _, a := range run.Artifacts {
		if len(a.ICO) > 0 {
			files = append(files, File{Path: path.Join(DirWindows, IcoName(a.Size)), Data: a.ICO})
		}
	}
	for _, a := range run.Artifacts {
		if len(a.PNG) > 0 {
			files = append(files, File{Path: path.Join(DirPNG, PNGName(a.Size)), Data: a.PNG})
		}
	}
	files = appendPlatform(files, run, DirAndroid, androidTargets, "icon-%ddp.png")
	files = appendPlatform(files, run, DirIOS, iosTargets, "icon-%dpx.png")
	return files, nil
}

func planFlat(run *entity.ConversionRun) []File {
	files := []File{{Path: ContainerName, Data: run.ICO}}
	for _, a := range run.Artifacts {
		if len(a.ICO) > 0 {
			files = append(files, File{Path: IcoName(a.Size), Data: a.ICO})
		}
		if len(a.PNG) > 0 {
			files = append(files, File{Path: PNGName(a.Size), Data: a.PNG})
		}
	}
	return files
}

func appendPlatform(files []File, run *entity.ConversionRun, dir string, targets []int, pattern string) []File {
	for _, target := range targets {
		a := run.FirstAtLeast(target)
		if a == nil || len(a.PNG) == 0 {
			continue
		}
		files = append(files, File{Path: path.Join(dir, fmt.Sprintf(pattern, target)), Data: a.PNG})
	}
	return files
}

// IcoName returns the single-image icon file name for size.
func IcoName(size entity.IconSize) string {
	return "icon-" + size.Label() + ".ico"
}

// PNGName returns the raster file name for size.
func PNGName(size entity.IconSize) string {
	return "icon-" + size.Label() + ".png"
}

// TotalBytes sums the payload sizes of files.
func TotalBytes(files []File) int64 {
	var n int64
	for _, f := range files {
		n += int64(len(f.Data))
	}
	return n
}
