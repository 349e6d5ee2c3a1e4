package project

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies what a band is tracking.
type Type string

const (
	TypeSong      Type = "SONG"
	TypeEvent     Type = "EVENT"
	TypeRehearsal Type = "REHEARSAL"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Project is a band's song, event, or rehearsal with an ordered task list and
// a chat thread.
type Project struct {
	ID        uuid.UUID `json:"id"`
	BandID    uuid.UUID `json:"band_id"`
	Title     string    `json:"title"`
	Type      Type      `json:"type"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is one step in a project. Position is the explicit order field; the
// task list is always read and written in position order.
type Task struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	LinkURL     string    `json:"link_url,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment is one chat message on a project, in chronological order.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
