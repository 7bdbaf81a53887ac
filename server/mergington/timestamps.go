package mergington

import "time"

// CreateTimestamp contains common timestamp fields indicating create time.
type CreateTimestamp struct {
	CreatedAt time.Time `json:"created_at"`
}

// UpdateTimestamp contains a timestamp that is updated each time an entity
// changes.
type UpdateTimestamp struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateCreateTimestamps is a composite of the create and update timestamps
// carried by stored entities.
type UpdateCreateTimestamps struct {
	CreateTimestamp
	UpdateTimestamp
}
