package render

import (
	"fmt"

	xdraw "golang.org/x/image/draw"

	"github.com/bnema/ico256/internal/domain/entity"
)

// smallSupersample is the intermediate scale factor used for the small band.
const smallSupersample = 4

type bandRenderer func(base *entity.Surface, edge int) (*entity.Surface, error)

// bandRenderers is indexed by entity.Band. The band set is closed.
var bandRenderers = [...]bandRenderer{
	entity.BandSmall:  renderSmall,
	entity.BandMedium: renderMedium,
	entity.BandLarge:  renderLarge,
}

// Resample renders the base surface at size, applying the filters of the
// size's band and, for edges up to 64px, the generic sharpen pass.
func Resample(base *entity.Surface, size entity.IconSize) (*entity.Surface, error) {
	if base == nil || !base.IsSquare() || base.Width() == 0 {
		return nil, fmt.Errorf("%w: base surface must be square", entity.ErrInvalidImageDimensions)
	}
	if !size.IsStandard() {
		return nil, fmt.Errorf("%w: unsupported size %d", entity.ErrInvalidImageDimensions, int(size))
	}

	out, err := bandRenderers[size.Band()](base, int(size))
	if err != nil {
		return nil, err
	}

	// Small sizes get this on top of their band filters.
	if size.NeedsSharpen() {
		out = Sharpen(out)
	}

	if out.Edge() != int(size) {
		return nil, fmt.Errorf("%w: rendered %dx%d for size %d",
			entity.ErrInvalidImageDimensions, out.Width(), out.Height(), int(size))
	}
	return out, nil
}

func renderSmall(base *entity.Surface, edge int) (*entity.Surface, error) {
	intermediate, err := scale(base, edge*smallSupersample, xdraw.CatmullRom)
	if err != nil {
		return nil, err
	}
	intermediate = SuperSharpen(intermediate)

	// Point sampling keeps single-pixel edges crisp at desktop scale.
	out, err := scale(intermediate, edge, xdraw.NearestNeighbor)
	if err != nil {
		return nil, err
	}
	return DesktopContrast(out), nil
}

func renderMedium(base *entity.Surface, edge int) (*entity.Surface, error) {
	return scale(base, edge, xdraw.CatmullRom)
}

func renderLarge(base *entity.Surface, edge int) (*entity.Surface, error) {
	out, err := scale(base, edge, xdraw.CatmullRom)
	if err != nil {
		return nil, err
	}
	return UnsharpMask(out), nil
}

// scale draws src into a new edge x edge surface. src is only read.
func scale(src *entity.Surface, edge int, interp xdraw.Interpolator) (*entity.Surface, error) {
	dst, err := entity.NewSquareSurface(edge)
	if err != nil {
		return nil, err
	}
	interp.Scale(dst.Image(), dst.Image().Bounds(), src.Image(), src.Image().Bounds(), xdraw.Src, nil)
	return dst, nil
}
