package model

// CropBox is the rectangle (plus rotation angle) isolating true page content
// from scan-bed background. Fields are nil until resolved: a partially filled
// box is a valid intermediate state. Once both bounds of an axis are set the
// ordering invariant holds: MinX < MaxX and MinY < MaxY.
type CropBox struct {
	MinX *int `json:"min_x"`
	MinY *int `json:"min_y"`
	MaxX *int `json:"max_x"`
	MaxY *int `json:"max_y"`

	// Angle is the skew correction in degrees, applied about the image
	// center before cropping. Nil means no measurable skew.
	Angle *float64 `json:"angle"`
}

// Int returns a pointer to v, for populating optional CropBox fields.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v, for populating optional CropBox fields.
func Float(v float64) *float64 {
	return &v
}

// HasXBounds reports whether both the left and right bounds are set.
func (b *CropBox) HasXBounds() bool {
	return b.MinX != nil && b.MaxX != nil
}

// HasYBounds reports whether both the top and bottom bounds are set.
func (b *CropBox) HasYBounds() bool {
	return b.MinY != nil && b.MaxY != nil
}

// Complete reports whether all four spatial bounds are set.
func (b *CropBox) Complete() bool {
	return b.HasXBounds() && b.HasYBounds()
}

// Width returns MaxX-MinX. ok is false if either bound is nil.
func (b *CropBox) Width() (w int, ok bool) {
	if !b.HasXBounds() {
		return 0, false
	}
	return *b.MaxX - *b.MinX, true
}

// Height returns MaxY-MinY. ok is false if either bound is nil.
func (b *CropBox) Height() (h int, ok bool) {
	if !b.HasYBounds() {
		return 0, false
	}
	return *b.MaxY - *b.MinY, true
}

// Valid reports whether the ordering invariant holds for every axis that has
// both bounds set. Axes with missing bounds are not considered violations.
func (b *CropBox) Valid() bool {
	if b.HasXBounds() && *b.MinX >= *b.MaxX {
		return false
	}
	if b.HasYBounds() && *b.MinY >= *b.MaxY {
		return false
	}
	return true
}

// Clone returns a deep copy of the box.
func (b *CropBox) Clone() *CropBox {
	out := &CropBox{}
	if b.MinX != nil {
		out.MinX = Int(*b.MinX)
	}
	if b.MinY != nil {
		out.MinY = Int(*b.MinY)
	}
	if b.MaxX != nil {
		out.MaxX = Int(*b.MaxX)
	}
	if b.MaxY != nil {
		out.MaxY = Int(*b.MaxY)
	}
	if b.Angle != nil {
		out.Angle = Float(*b.Angle)
	}
	return out
}

// Equal reports whether two boxes have identical fields, treating nil and
// set values as distinct.
func (b *CropBox) Equal(other *CropBox) bool {
	return eqInt(b.MinX, other.MinX) &&
		eqInt(b.MinY, other.MinY) &&
		eqInt(b.MaxX, other.MaxX) &&
		eqInt(b.MaxY, other.MaxY) &&
		eqFloat(b.Angle, other.Angle)
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
