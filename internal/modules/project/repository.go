package project

import "context"

// Repository defines project, task, and comment data storage.
type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProjectByID(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, bandID string) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	// DeleteProject removes the project with its tasks and comments.
	DeleteProject(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *Task) error
	GetTaskByID(ctx context.Context, id string) (*Task, error)
	// ListTasks returns the project's tasks in position order.
	ListTasks(ctx context.Context, projectID string) ([]*Task, error)
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id string) error
	// ReorderTasks persists the full desired order; position follows the
	// slice index.
	ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error

	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, projectID string) ([]*Comment, error)
	GetCommentByID(ctx context.Context, id string) (*Comment, error)
	DeleteComment(ctx context.Context, id string) error
}
