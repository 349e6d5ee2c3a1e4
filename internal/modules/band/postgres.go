package band

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL band repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateBand(ctx context.Context, b *Band) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bands (id, name, description, image_url, payment_note, payment_links)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.Name, b.Description, b.ImageURL, b.PaymentNote, nullableJSON(b.PaymentLinks))
	return err
}

func (r *postgresRepo) GetBandByID(ctx context.Context, id string) (*Band, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanBand(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, image_url, payment_note, payment_links, created_at, updated_at
		FROM bands WHERE id=$1`, uid))
}

func (r *postgresRepo) UpdateBand(ctx context.Context, b *Band) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bands
		SET name=$1, description=$2, image_url=$3, payment_note=$4, payment_links=$5, updated_at=NOW()
		WHERE id=$6`,
		b.Name, b.Description, b.ImageURL, b.PaymentNote, nullableJSON(b.PaymentLinks), b.ID)
	return err
}

func (r *postgresRepo) ListBandsForUser(ctx context.Context, userID string) ([]*Band, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.description, b.image_url, b.payment_note, b.payment_links, b.created_at, b.updated_at
		FROM bands b
		JOIN band_members m ON m.band_id = b.id
		WHERE m.user_id=$1
		ORDER BY b.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bands []*Band
	for rows.Next() {
		b, err := scanBand(rows)
		if err != nil {
			return nil, err
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

func (r *postgresRepo) AddMember(ctx context.Context, m *Member) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO band_members (band_id, user_id, name, email, avatar_url, role)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.BandID, m.UserID, m.Name, m.Email, m.AvatarURL, m.Role)
	return err
}

func (r *postgresRepo) ListMembers(ctx context.Context, bandID string) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT band_id, user_id, name, email, avatar_url, role, joined_at
		FROM band_members WHERE band_id=$1 ORDER BY joined_at ASC`, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []*Member
	for rows.Next() {
		m := &Member{}
		var avatar sql.NullString
		if err := rows.Scan(&m.BandID, &m.UserID, &m.Name, &m.Email, &avatar, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		if avatar.Valid {
			m.AvatarURL = avatar.String
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresRepo) GetMemberRole(ctx context.Context, bandID, userID string) (Role, error) {
	var role Role
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM band_members WHERE band_id=$1 AND user_id=$2`,
		bandID, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, err
	}
	return role, nil
}

func (r *postgresRepo) UpdateMemberRole(ctx context.Context, bandID, userID string, role Role) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE band_members SET role=$1 WHERE band_id=$2 AND user_id=$3`,
		role, bandID, userID)
	return err
}

func (r *postgresRepo) RemoveMember(ctx context.Context, bandID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM band_members WHERE band_id=$1 AND user_id=$2`, bandID, userID)
	return err
}

func (r *postgresRepo) CreateRequest(ctx context.Context, req *JoinRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO band_requests (id, band_id, user_id, name, email, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		req.ID, req.BandID, req.UserID, req.Name, req.Email, req.Status)
	return err
}

func (r *postgresRepo) GetRequestByID(ctx context.Context, id string) (*JoinRequest, error) {
	req := &JoinRequest{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, band_id, user_id, name, email, status, created_at
		FROM band_requests WHERE id=$1`, id).
		Scan(&req.ID, &req.BandID, &req.UserID, &req.Name, &req.Email, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *postgresRepo) ListPendingRequests(ctx context.Context, bandID string) ([]*JoinRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, band_id, user_id, name, email, status, created_at
		FROM band_requests WHERE band_id=$1 AND status=$2 ORDER BY created_at ASC`,
		bandID, RequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reqs []*JoinRequest
	for rows.Next() {
		req := &JoinRequest{}
		if err := rows.Scan(&req.ID, &req.BandID, &req.UserID, &req.Name, &req.Email, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *postgresRepo) UpdateRequestStatus(ctx context.Context, id string, status RequestStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE band_requests SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanBand(row rowScanner) (*Band, error) {
	b := &Band{}
	var description, imageURL, paymentNote sql.NullString
	var paymentLinks []byte
	err := row.Scan(&b.ID, &b.Name, &description, &imageURL, &paymentNote,
		&paymentLinks, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		b.Description = description.String
	}
	if imageURL.Valid {
		b.ImageURL = imageURL.String
	}
	if paymentNote.Valid {
		b.PaymentNote = paymentNote.String
	}
	b.PaymentLinks = paymentLinks
	return b, nil
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
