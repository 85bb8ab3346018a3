package board

import "tabula/pkg/errors"

// Patch is a partial update to an item. Nil fields leave the corresponding
// item field untouched; set fields overwrite it. ParentID pointing at an empty
// string clears the parent reference.
//
// Patches are the wire format for item updates (PATCH requests, store calls)
// and the unit of optimistic mutation: applying a patch yields the inverse
// patch that restores exactly the fields it touched.
type Patch struct {
	X        *float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" bson:"y,omitempty"`
	Width    *float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height   *float64 `json:"height,omitempty" bson:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Z        *int     `json:"z_index,omitempty" bson:"z_index,omitempty"`
	ParentID *string  `json:"parent_item_id,omitempty" bson:"parent_item_id,omitempty"`
	Content  *string  `json:"content,omitempty" bson:"content,omitempty"`
	Style    *Style   `json:"style,omitempty" bson:"style,omitempty"`
	Deleted  *bool    `json:"is_deleted,omitempty" bson:"is_deleted,omitempty"`
}

// IsZero reports whether the patch sets no fields.
func (p Patch) IsZero() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Rotation == nil && p.Z == nil && p.ParentID == nil &&
		p.Content == nil && p.Style == nil && p.Deleted == nil
}

// Validate rejects patches carrying non-finite geometry.
func (p Patch) Validate() error {
	checks := []struct {
		name string
		v    *float64
	}{
		{"x", p.X},
		{"y", p.Y},
		{"width", p.Width},
		{"height", p.Height},
		{"rotation", p.Rotation},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := errors.ValidateFinite(c.name, *c.v); err != nil {
			return err
		}
	}
	return nil
}

// Apply overwrites the item fields the patch sets and returns the inverse
// patch. Applying the inverse restores the item to its prior state.
func (p Patch) Apply(it *Item) Patch {
	var inv Patch

	if p.X != nil {
		prev := it.X
		inv.X = &prev
		it.X = *p.X
	}
	if p.Y != nil {
		prev := it.Y
		inv.Y = &prev
		it.Y = *p.Y
	}
	if p.Width != nil {
		prev := it.Width
		inv.Width = &prev
		it.Width = *p.Width
	}
	if p.Height != nil {
		prev := it.Height
		inv.Height = &prev
		it.Height = *p.Height
	}
	if p.Rotation != nil {
		prev := it.Rotation
		inv.Rotation = &prev
		it.Rotation = *p.Rotation
	}
	if p.Z != nil {
		prev := it.Z
		inv.Z = &prev
		it.Z = *p.Z
	}
	if p.ParentID != nil {
		// Inverse carries the prior parent, or the clear marker when there
		// was none.
		prev := it.Parent()
		inv.ParentID = &prev
		if *p.ParentID == "" {
			it.ParentID = nil
		} else {
			v := *p.ParentID
			it.ParentID = &v
		}
	}
	if p.Content != nil {
		prev := it.Content
		inv.Content = &prev
		it.Content = *p.Content
	}
	if p.Style != nil {
		prev := it.Style.clone()
		inv.Style = &prev
		it.Style = p.Style.clone()
	}
	if p.Deleted != nil {
		prev := it.Deleted
		inv.Deleted = &prev
		it.Deleted = *p.Deleted
	}

	return inv
}

// MovePatch builds a patch updating only position.
func MovePatch(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// ResizePatch builds a patch updating position and size together, the shape
// a corner resize produces.
func ResizePatch(x, y, w, h float64) Patch {
	return Patch{X: &x, Y: &y, Width: &w, Height: &h}
}

// ParentPatch builds a patch setting the parent frame reference. Pass "" to
// clear it.
func ParentPatch(parentID string) Patch {
	return Patch{ParentID: &parentID}
}

// ContentPatch builds a patch updating only text content.
func ContentPatch(content string) Patch {
	return Patch{Content: &content}
}

// DeletePatch builds a patch flipping the soft-delete flag.
func DeletePatch(deleted bool) Patch {
	return Patch{Deleted: &deleted}
}

// ZPatch builds a patch updating only stacking order.
func ZPatch(z int) Patch {
	return Patch{Z: &z}
}
