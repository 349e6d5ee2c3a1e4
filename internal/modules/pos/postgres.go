package pos

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL sale repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateSale inserts the sale and all its line items inside a single transaction.
func (r *postgresRepo) CreateSale(ctx context.Context, sale *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, band_id, total, seller_id, seller_name, sold_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		sale.ID, sale.BandID, sale.Total, sale.SellerID, sale.SellerName, sale.Timestamp)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	if err := insertItems(ctx, tx, sale); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetSaleByID(ctx context.Context, id string) (*Sale, error) {
	sale, err := scanSale(r.db.QueryRowContext(ctx, `
		SELECT id, band_id, total, seller_id, seller_name, sold_at, created_at, updated_at
		FROM sales WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	sale.Items, err = r.listItems(ctx, sale.ID.String())
	return sale, err
}

func (r *postgresRepo) ListSalesByBand(ctx context.Context, bandID string) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, band_id, total, seller_id, seller_name, sold_at, created_at, updated_at
		FROM sales WHERE band_id=$1 ORDER BY sold_at DESC`, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, sale := range sales {
		sale.Items, err = r.listItems(ctx, sale.ID.String())
		if err != nil {
			return nil, err
		}
	}
	return sales, nil
}

// ReplaceSale rewrites the sale row and replaces its line items wholesale.
func (r *postgresRepo) ReplaceSale(ctx context.Context, sale *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE sales SET total=$1, updated_at=$2 WHERE id=$3`,
		sale.Total, time.Now(), sale.ID)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id=$1`, sale.ID); err != nil {
		return fmt.Errorf("clear sale_items: %w", err)
	}
	if err := insertItems(ctx, tx, sale); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) DeleteSale(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertItems(ctx context.Context, tx *sql.Tx, sale *Sale) error {
	for _, item := range sale.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, item_id, variant_label, quantity, price_at_sale, name)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			sale.ID, item.ItemID, item.VariantLabel, item.Quantity, item.PriceAtSale, item.Name)
		if err != nil {
			return fmt.Errorf("insert sale_item: %w", err)
		}
	}
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanSale(row rowScanner) (*Sale, error) {
	sale := &Sale{}
	err := row.Scan(&sale.ID, &sale.BandID, &sale.Total, &sale.SellerID,
		&sale.SellerName, &sale.Timestamp, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *postgresRepo) listItems(ctx context.Context, saleID string) ([]SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, variant_label, quantity, price_at_sale, name
		FROM sale_items WHERE sale_id=$1`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleItem
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ItemID, &item.VariantLabel, &item.Quantity, &item.PriceAtSale, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
