package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL project repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateProject(ctx context.Context, p *Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, band_id, title, type, status)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.BandID, p.Title, p.Type, p.Status)
	return err
}

func (r *postgresRepo) GetProjectByID(ctx context.Context, id string) (*Project, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p := &Project{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, band_id, title, type, status, created_at, updated_at
		FROM projects WHERE id=$1`, uid).
		Scan(&p.ID, &p.BandID, &p.Title, &p.Type, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListProjects(ctx context.Context, bandID string) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, band_id, title, type, status, created_at, updated_at
		FROM projects WHERE band_id=$1 ORDER BY created_at DESC`, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.BandID, &p.Title, &p.Type, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *postgresRepo) UpdateProject(ctx context.Context, p *Project) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects SET title=$1, type=$2, status=$3, updated_at=NOW()
		WHERE id=$4`, p.Title, p.Type, p.Status, p.ID)
	return err
}

// DeleteProject removes the project and everything hanging off it in one
// transaction.
func (r *postgresRepo) DeleteProject(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE project_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) CreateTask(ctx context.Context, t *Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, title, is_completed, link_url, position)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.ProjectID, t.Title, t.IsCompleted, t.LinkURL, t.Position)
	return err
}

func (r *postgresRepo) GetTaskByID(ctx context.Context, id string) (*Task, error) {
	return scanTask(r.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, is_completed, link_url, position, created_at, updated_at
		FROM tasks WHERE id=$1`, id))
}

func (r *postgresRepo) ListTasks(ctx context.Context, projectID string) ([]*Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, title, is_completed, link_url, position, created_at, updated_at
		FROM tasks WHERE project_id=$1 ORDER BY position ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *postgresRepo) UpdateTask(ctx context.Context, t *Task) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title=$1, is_completed=$2, link_url=$3, position=$4, updated_at=NOW()
		WHERE id=$5`, t.Title, t.IsCompleted, t.LinkURL, t.Position, t.ID)
	return err
}

func (r *postgresRepo) DeleteTask(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	return err
}

// ReorderTasks writes the full desired order in one transaction; position
// follows the slice index.
func (r *postgresRepo) ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET position=$1, updated_at=$2 WHERE id=$3 AND project_id=$4`,
			i, time.Now(), id, projectID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("task %s not found in project %s", id, projectID)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) CreateComment(ctx context.Context, c *Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, project_id, author_id, author_name, body)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.ProjectID, c.AuthorID, c.AuthorName, c.Body)
	return err
}

func (r *postgresRepo) ListComments(ctx context.Context, projectID string) ([]*Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, author_id, author_name, body, created_at
		FROM comments WHERE project_id=$1 ORDER BY created_at ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var comments []*Comment
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *postgresRepo) GetCommentByID(ctx context.Context, id string) (*Comment, error) {
	c := &Comment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, author_id, author_name, body, created_at
		FROM comments WHERE id=$1`, id).
		Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) DeleteComment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var linkURL sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.IsCompleted, &linkURL,
		&t.Position, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if linkURL.Valid {
		t.LinkURL = linkURL.String
	}
	return t, nil
}
