package viewport

// MarginConfig holds scroll margin configuration in pixels.
type MarginConfig struct {
	Top    int // Pixels to keep above the caret
	Bottom int // Pixels to keep below the caret
	Left   int // Pixels to keep left of the caret
	Right  int // Pixels to keep right of the caret
}

// DefaultMargins returns margins of roughly two lines and four characters
// of the default font.
func DefaultMargins() MarginConfig {
	return MarginConfig{
		Top:    26,
		Bottom: 26,
		Left:   28,
		Right:  28,
	}
}

// NoMargins returns zero margins (caret can go to edge).
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// SetMarginsFromConfig sets margins from a MarginConfig.
func (v *Viewport) SetMarginsFromConfig(config MarginConfig) {
	v.SetMargins(config.Top, config.Bottom, config.Left, config.Right)
}

// maxMarginRatio limits margins to 1/3 of viewport dimension to ensure
// there's always usable space in the center.
const maxMarginRatio = 3

// EffectiveMargins returns margins adjusted for viewport size.
func (v *Viewport) EffectiveMargins() MarginConfig {
	return v.effectiveMargins()
}

func (v *Viewport) effectiveMargins() MarginConfig {
	maxVertical := v.height / maxMarginRatio
	maxHorizontal := v.width / maxMarginRatio
	return MarginConfig{
		Top:    min(v.marginTop, maxVertical),
		Bottom: min(v.marginBottom, maxVertical),
		Left:   min(v.marginLeft, maxHorizontal),
		Right:  min(v.marginRight, maxHorizontal),
	}
}
