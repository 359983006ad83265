package shaping

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/logger"
)

// Font families known to DefaultFactory.
const (
	FamilyFixed  = "Fixed"
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

// Factory opens a face for a font at a size in points.
type Factory func(f style.Font, size float64) (font.Face, error)

var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

// DefaultFactory serves the bitmap Fixed family and the bundled Go fonts.
// Unknown families fall back to Go.
func DefaultFactory(f style.Font, size float64) (font.Face, error) {
	if size <= 0 {
		size = style.DefaultSize
	}
	var variants [4][]byte // regular, bold, italic, bold italic
	switch strings.ToLower(f.Family) {
	case "", "fixed":
		return fixedFace(size), nil
	case "go mono", "gomono", "mono", "monospace":
		variants = [4][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF}
	case "go", "sans", "sans-serif":
		variants = [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	default:
		logger.Warnf("unknown font family %q, falling back to %s", f.Family, FamilyGo)
		variants = [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	}
	idx := 0
	if f.Bold {
		idx |= 1
	}
	if f.Italic {
		idx |= 2
	}
	otf, err := parseFont(fmt.Sprintf("%s/%d", strings.ToLower(f.Family), idx), variants[idx])
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("open face %s: %w", f, err)
	}
	return face, nil
}

func parseFont(key string, ttf []byte) (*opentype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if otf, ok := parsed[key]; ok {
		return otf, nil
	}
	otf, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", key, err)
	}
	parsed[key] = otf
	return otf, nil
}

// fixedFace scales the 7x13 bitmap metrics to size. Glyph images are not
// scaled; only measurement is meaningful for sizes other than 13.
func fixedFace(size float64) font.Face {
	base := basicfont.Face7x13
	if size == float64(base.Height) {
		return base
	}
	scale := size / float64(base.Height)
	f := *base
	f.Advance = max(1, int(math.Round(float64(base.Advance)*scale)))
	f.Width = max(1, int(math.Round(float64(base.Width)*scale)))
	f.Height = max(1, int(math.Round(size)))
	f.Ascent = int(math.Round(float64(base.Ascent) * scale))
	f.Descent = f.Height - f.Ascent
	return &f
}
