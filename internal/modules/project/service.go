package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/user"
)

// Service defines project tracking business logic. All operations require
// band membership.
type Service interface {
	CreateProject(ctx context.Context, actorID string, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, actorID, projectID string) (*Project, error)
	ListProjects(ctx context.Context, actorID, bandID string) ([]*Project, error)
	SetStatus(ctx context.Context, actorID, projectID string, status Status) (*Project, error)
	DeleteProject(ctx context.Context, actorID, projectID string) error

	AddTask(ctx context.Context, actorID, projectID string, req UpsertTaskRequest) (*Task, error)
	ListTasks(ctx context.Context, actorID, projectID string) ([]*Task, error)
	UpdateTask(ctx context.Context, actorID, taskID string, req UpsertTaskRequest) (*Task, error)
	ToggleTask(ctx context.Context, actorID, taskID string) (*Task, error)
	DeleteTask(ctx context.Context, actorID, taskID string) error
	// MoveTask splices the dragged task out of its current index and
	// reinserts it at the target task's pre-removal index, then persists the
	// whole new order. No-op when drag == target or either id is unknown.
	MoveTask(ctx context.Context, actorID, projectID, dragID, targetID string) ([]*Task, error)
	ReorderTasks(ctx context.Context, actorID, projectID string, orderedIDs []string) ([]*Task, error)

	AddComment(ctx context.Context, actorID, projectID, body string) (*Comment, error)
	ListComments(ctx context.Context, actorID, projectID string) ([]*Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID string) error
}

// CreateProjectRequest holds the data for creating a project.
type CreateProjectRequest struct {
	BandID string `json:"band_id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
}

// UpsertTaskRequest holds the writable task fields.
type UpsertTaskRequest struct {
	Title   string `json:"title"`
	LinkURL string `json:"link_url"`
}

type service struct {
	repo    Repository
	members band.MemberReader
	users   user.Repository
}

// NewService creates a new project service.
func NewService(repo Repository, members band.MemberReader, users user.Repository) Service {
	return &service{repo: repo, members: members, users: users}
}

func (s *service) CreateProject(ctx context.Context, actorID string, req CreateProjectRequest) (*Project, error) {
	bandID, err := uuid.Parse(req.BandID)
	if err != nil {
		return nil, fmt.Errorf("invalid band_id: %w", err)
	}
	if err := s.requireMember(ctx, req.BandID, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	ptype := Type(strings.ToUpper(req.Type))
	switch ptype {
	case TypeSong, TypeEvent, TypeRehearsal:
	default:
		return nil, fmt.Errorf("invalid type: %s (allowed: SONG, EVENT, REHEARSAL)", req.Type)
	}

	p := &Project{
		ID:     uuid.New(),
		BandID: bandID,
		Title:  strings.TrimSpace(req.Title),
		Type:   ptype,
		Status: StatusInProgress,
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProject(ctx context.Context, actorID, projectID string) (*Project, error) {
	p, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, p.BandID.String(), actorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListProjects(ctx context.Context, actorID, bandID string) ([]*Project, error) {
	if err := s.requireMember(ctx, bandID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListProjects(ctx, bandID)
}

func (s *service) SetStatus(ctx context.Context, actorID, projectID string, status Status) (*Project, error) {
	p, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	switch status {
	case StatusInProgress, StatusCompleted:
	default:
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	p.Status = status
	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProject(ctx context.Context, actorID, projectID string) error {
	if _, err := s.GetProject(ctx, actorID, projectID); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, projectID)
}

func (s *service) AddTask(ctx context.Context, actorID, projectID string, req UpsertTaskRequest) (*Task, error) {
	p, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	existing, err := s.repo.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	t := &Task{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Title:     strings.TrimSpace(req.Title),
		LinkURL:   req.LinkURL,
		Position:  len(existing),
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ListTasks(ctx context.Context, actorID, projectID string) ([]*Task, error) {
	if _, err := s.GetProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, projectID)
}

func (s *service) UpdateTask(ctx context.Context, actorID, taskID string, req UpsertTaskRequest) (*Task, error) {
	t, err := s.taskForActor(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) != "" {
		t.Title = strings.TrimSpace(req.Title)
	}
	t.LinkURL = req.LinkURL
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ToggleTask(ctx context.Context, actorID, taskID string) (*Task, error) {
	t, err := s.taskForActor(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	t.IsCompleted = !t.IsCompleted
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) DeleteTask(ctx context.Context, actorID, taskID string) error {
	t, err := s.taskForActor(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, t.ID.String())
}

func (s *service) MoveTask(ctx context.Context, actorID, projectID, dragID, targetID string) ([]*Task, error) {
	tasks, err := s.ListTasks(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if dragID == targetID {
		return tasks, nil
	}

	dragIdx, targetIdx := -1, -1
	for i, t := range tasks {
		switch t.ID.String() {
		case dragID:
			dragIdx = i
		case targetID:
			targetIdx = i
		}
	}
	if dragIdx < 0 || targetIdx < 0 {
		return tasks, nil
	}

	// Splice out, then reinsert at the target's pre-removal index.
	dragged := tasks[dragIdx]
	tasks = append(tasks[:dragIdx], tasks[dragIdx+1:]...)
	rest := make([]*Task, 0, len(tasks)+1)
	rest = append(rest, tasks[:targetIdx]...)
	rest = append(rest, dragged)
	rest = append(rest, tasks[targetIdx:]...)

	ids := make([]string, len(rest))
	for i, t := range rest {
		t.Position = i
		ids[i] = t.ID.String()
	}
	if err := s.repo.ReorderTasks(ctx, projectID, ids); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *service) ReorderTasks(ctx context.Context, actorID, projectID string, orderedIDs []string) ([]*Task, error) {
	tasks, err := s.ListTasks(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if len(orderedIDs) != len(tasks) {
		return nil, fmt.Errorf("order must list all %d tasks", len(tasks))
	}
	byID := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID.String()] = t
	}
	reordered := make([]*Task, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown task id in order: %s", id)
		}
		t.Position = i
		reordered = append(reordered, t)
		delete(byID, id)
	}
	if err := s.repo.ReorderTasks(ctx, projectID, orderedIDs); err != nil {
		return nil, err
	}
	return reordered, nil
}

func (s *service) AddComment(ctx context.Context, actorID, projectID, body string) (*Comment, error) {
	p, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("body is required")
	}
	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("author not found: %w", err)
	}

	c := &Comment{
		ID:         uuid.New(),
		ProjectID:  p.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Body:       body,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListComments(ctx context.Context, actorID, projectID string) ([]*Comment, error) {
	if _, err := s.GetProject(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, projectID)
}

func (s *service) DeleteComment(ctx context.Context, actorID, commentID string) error {
	c, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("comment not found: %w", err)
	}
	if c.AuthorID.String() != actorID {
		return fmt.Errorf("forbidden: only the author can delete a comment")
	}
	return s.repo.DeleteComment(ctx, commentID)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *service) taskForActor(ctx context.Context, actorID, taskID string) (*Task, error) {
	t, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetProject(ctx, actorID, t.ProjectID.String()); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) requireMember(ctx context.Context, bandID, actorID string) error {
	role, err := s.members.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return err
	}
	if role == band.RoleNone {
		return fmt.Errorf("forbidden: not a member of this band")
	}
	return nil
}
