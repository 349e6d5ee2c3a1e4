package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL inventory repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateItem inserts the item and all its variants inside a single transaction.
func (r *postgresRepo) CreateItem(ctx context.Context, item *Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (id, band_id, name, price, image_url)
		VALUES ($1,$2,$3,$4,$5)`,
		item.ID, item.BandID, item.Name, item.Price, item.ImageURL)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	for _, v := range item.Variants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item_variants (item_id, label, stock)
			VALUES ($1,$2,$3)`, item.ID, v.Label, v.Stock)
		if err != nil {
			return fmt.Errorf("insert item_variant: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetItemByID(ctx context.Context, id string) (*Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	item, err := scanItem(r.db.QueryRowContext(ctx, `
		SELECT id, band_id, name, price, image_url, created_at, updated_at
		FROM items WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	item.Variants, err = r.listVariants(ctx, item.ID.String())
	return item, err
}

func (r *postgresRepo) ListItems(ctx context.Context, bandID string) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, band_id, name, price, image_url, created_at, updated_at
		FROM items WHERE band_id=$1 ORDER BY created_at ASC`, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, item := range items {
		item.Variants, err = r.listVariants(ctx, item.ID.String())
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// UpdateItem rewrites the item row and replaces the whole variants collection.
func (r *postgresRepo) UpdateItem(ctx context.Context, item *Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE items SET name=$1, price=$2, image_url=$3, updated_at=NOW()
		WHERE id=$4`, item.Name, item.Price, item.ImageURL, item.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM item_variants WHERE item_id=$1`, item.ID); err != nil {
		return fmt.Errorf("clear item_variants: %w", err)
	}
	for _, v := range item.Variants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item_variants (item_id, label, stock)
			VALUES ($1,$2,$3)`, item.ID, v.Label, v.Stock)
		if err != nil {
			return fmt.Errorf("insert item_variant: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) DeleteItem(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_variants WHERE item_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// AdjustStock is a relative update so a single adjustment cannot lose a
// concurrent one. No floor: stock may go negative.
func (r *postgresRepo) AdjustStock(ctx context.Context, itemID, label string, delta int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE item_variants SET stock = stock + $1
		WHERE item_id=$2 AND label=$3`, delta, itemID, label)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("variant %q not found for item %s", label, itemID)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanItem(row rowScanner) (*Item, error) {
	item := &Item{}
	var imageURL sql.NullString
	err := row.Scan(&item.ID, &item.BandID, &item.Name, &item.Price, &imageURL,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		item.ImageURL = imageURL.String
	}
	return item, nil
}

func (r *postgresRepo) listVariants(ctx context.Context, itemID string) ([]Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT label, stock FROM item_variants WHERE item_id=$1 ORDER BY label ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var variants []Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.Label, &v.Stock); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
