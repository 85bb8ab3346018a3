package canvas

// Default interaction tuning values.
const (
	DefaultMinZoom       = 0.1
	DefaultMaxZoom       = 5.0
	DefaultMinItemSize   = 20.0
	DefaultCullMargin    = 100.0
	DefaultDragThreshold = 3.0
	DefaultHandleSlop    = 6.0
)

// Limits bundles the tunable interaction constants. The zero value is not
// usable; start from [DefaultLimits].
type Limits struct {
	// MinZoom and MaxZoom clamp the viewport scale.
	MinZoom float64
	MaxZoom float64

	// MinItemSize is the smallest width/height a resize may produce, in
	// world units.
	MinItemSize float64

	// CullMargin widens the visible rect before culling, in screen pixels,
	// so items sliding in during a pan don't pop.
	CullMargin float64

	// DragThreshold is the screen-space distance a pointer must travel
	// before a press becomes a drag instead of a click.
	DragThreshold float64

	// HandleSlop is the screen-space pick radius around a corner handle.
	HandleSlop float64
}

// DefaultLimits returns the standard interaction tuning.
func DefaultLimits() Limits {
	return Limits{
		MinZoom:       DefaultMinZoom,
		MaxZoom:       DefaultMaxZoom,
		MinItemSize:   DefaultMinItemSize,
		CullMargin:    DefaultCullMargin,
		DragThreshold: DefaultDragThreshold,
		HandleSlop:    DefaultHandleSlop,
	}
}
