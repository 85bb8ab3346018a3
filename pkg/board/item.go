package board

import (
	"time"

	"github.com/google/uuid"
)

// ItemType identifies the kind of an item on a board.
type ItemType string

// Item types supported on a board.
const (
	TypeStickyNote ItemType = "sticky_note"
	TypeShape      ItemType = "shape"
	TypeText       ItemType = "text"
	TypeFrame      ItemType = "frame"
	TypeLine       ItemType = "line"
	TypeConnector  ItemType = "connector"
	TypeFreehand   ItemType = "freehand"
)

// validTypes is the closed set of item types accepted from external input.
var validTypes = map[ItemType]bool{
	TypeStickyNote: true,
	TypeShape:      true,
	TypeText:       true,
	TypeFrame:      true,
	TypeLine:       true,
	TypeConnector:  true,
	TypeFreehand:   true,
}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool { return validTypes[t] }

// Linear reports whether the type is a one-dimensional item (line or
// connector). Linear items resize only along their width; height and vertical
// position are locked.
func (t ItemType) Linear() bool { return t == TypeLine || t == TypeConnector }

// Point is a coordinate pair. Points inside a freehand style payload are
// relative to the item's origin; everywhere else they are world-space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Style is the visual payload of an item. One struct serves every item type;
// fields that are not meaningful for a given type stay at their zero values
// and are omitted from serialization.
type Style struct {
	Fill        string  `json:"fill,omitempty" bson:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty" bson:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty" bson:"stroke_width,omitempty"`
	FontSize    float64 `json:"font_size,omitempty" bson:"font_size,omitempty"`

	// Shape variant for TypeShape items: "rectangle", "ellipse", "diamond".
	Shape string `json:"shape,omitempty" bson:"shape,omitempty"`

	// Points holds a freehand stroke path relative to the item origin.
	Points []Point `json:"points,omitempty" bson:"points,omitempty"`

	// Connector endpoints reference other items by id. Like ParentID these
	// are advisory: a dangling endpoint renders the connector detached.
	FromID string `json:"from_id,omitempty" bson:"from_id,omitempty"`
	ToID   string `json:"to_id,omitempty" bson:"to_id,omitempty"`
	Arrow  bool   `json:"arrow,omitempty" bson:"arrow,omitempty"`
}

// clone returns a deep copy of the style.
func (s Style) clone() Style {
	out := s
	if s.Points != nil {
		out.Points = make([]Point, len(s.Points))
		copy(out.Points, s.Points)
	}
	return out
}

// Item is a single element on a board.
//
// Geometry is world-space and axis-aligned: X/Y is the top-left corner of the
// bounding box, Width/Height its extent. Rotation is carried for fidelity with
// imported boards but all interaction math treats bounds as unrotated.
type Item struct {
	ID        string    `json:"id" bson:"_id"`
	Type      ItemType  `json:"type" bson:"type"`
	X         float64   `json:"x" bson:"x"`
	Y         float64   `json:"y" bson:"y"`
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
	Rotation  float64   `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Z         int       `json:"z_index" bson:"z_index"`
	ParentID  *string   `json:"parent_item_id,omitempty" bson:"parent_item_id,omitempty"`
	Content   string    `json:"content,omitempty" bson:"content,omitempty"`
	Style     Style     `json:"style" bson:"style"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Deleted   bool      `json:"is_deleted,omitempty" bson:"is_deleted,omitempty"`
}

// Bounds returns the item's axis-aligned bounding box.
func (it *Item) Bounds() Rect {
	return Rect{X: it.X, Y: it.Y, W: it.Width, H: it.Height}
}

// HasParent reports whether the item carries a parent frame reference.
func (it *Item) HasParent() bool {
	return it.ParentID != nil && *it.ParentID != ""
}

// Parent returns the parent frame id, or "" when unparented.
func (it *Item) Parent() string {
	if it.ParentID == nil {
		return ""
	}
	return *it.ParentID
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	out := *it
	out.Style = it.Style.clone()
	if it.ParentID != nil {
		p := *it.ParentID
		out.ParentID = &p
	}
	return &out
}

// NewID returns a fresh unique item identifier.
func NewID() string { return uuid.NewString() }
