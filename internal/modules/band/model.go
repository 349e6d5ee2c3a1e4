package band

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Band is a tenant: it owns inventory, sales, members, and projects.
type Band struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	// Payment display config shown at checkout (e.g. tip-jar handles).
	PaymentNote  string          `json:"payment_note,omitempty"`
	PaymentLinks json.RawMessage `json:"payment_links,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Member links a user to a band with a role. Name, email, and avatar are
// denormalized from the profile for display.
type Member struct {
	BandID    uuid.UUID `json:"band_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// RequestStatus is the state of a join request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// JoinRequest is a user asking to join a band.
type JoinRequest struct {
	ID        uuid.UUID     `json:"id"`
	BandID    uuid.UUID     `json:"band_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
