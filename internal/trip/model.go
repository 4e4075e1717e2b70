package trip

import "time"

// Trip represents a group of people sharing expenses in one currency
type Trip struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Currency    string    `json:"currency"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member represents one participant of a trip
type Member struct {
	TripID   string `json:"trip_id"`
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Position int    `json:"-"` // join order, keeps member listings stable
}
