package models

// Category is one of the three fixed buckets a deliverable lives in.
// The buckets partition the full set with no overlap.
type Category string

const (
	CategoryPhotos      Category = "photos"
	CategoryShortVideos Category = "shortVideos"
	CategoryLongVideos  Category = "longVideos"
)

// Categories in display order.
var Categories = []Category{CategoryPhotos, CategoryShortVideos, CategoryLongVideos}

func (c Category) Valid() bool {
	switch c {
	case CategoryPhotos, CategoryShortVideos, CategoryLongVideos:
		return true
	}
	return false
}

// DisplayName is the section heading used in reports and the admin panel.
func (c Category) DisplayName() string {
	switch c {
	case CategoryPhotos:
		return "Pictures"
	case CategoryShortVideos:
		return "Short Videos"
	case CategoryLongVideos:
		return "Long Videos"
	}
	return string(c)
}

// Deliverable statuses. Informational only: the admin form may set any
// status regardless of other fields, there is no state machine.
const (
	DeliverableStatusPending   = "pending"
	DeliverableStatusUploaded  = "uploaded"
	DeliverableStatusRendering = "rendering"
	DeliverableStatusApproved  = "approved"
)

// Deliverable is a single media item shared for client review. The URL
// points at an externally hosted asset; the portal never fetches it.
type Deliverable struct {
	BaseModel
	Category Category `gorm:"not null;index" json:"category"`
	Title    string   `gorm:"not null" json:"title"`
	URL      string   `gorm:"not null" json:"url"`
	Status   string   `gorm:"default:'pending'" json:"status"`
	Duration *string  `json:"duration,omitempty"` // omitted for photos
	Progress *int     `json:"progress,omitempty"` // 0-100, client-supplied, only shown while rendering
	Comment  string   `gorm:"type:text" json:"comment"`

	// IsApproved is the client's approval flag, independent of Status.
	IsApproved bool `gorm:"default:false" json:"is_approved"`
}

func (Deliverable) TableName() string {
	return "client_deliverables"
}
