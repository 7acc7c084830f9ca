package database

import (
	"database/sql"
	"fmt"
)

// ItemRepositoryImpl handles database operations for items.
type ItemRepositoryImpl struct {
	db *DB
}

var _ ItemRepository = (*ItemRepositoryImpl)(nil)

func NewItemRepository(db *DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

func (r *ItemRepositoryImpl) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

func (r *ItemRepositoryImpl) GetItemName(itemID int64) (string, error) {
	var name string
	err := r.db.QueryRow("SELECT name FROM items WHERE item_id = ?", itemID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("item %d not found", itemID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get item name: %w", err)
	}
	return name, nil
}

func (r *ItemRepositoryImpl) UpdateItemName(itemID int64, name string) error {
	res, err := r.db.Exec("UPDATE items SET name = ? WHERE item_id = ?", name, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item name: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d not found", itemID)
	}

	return nil
}

func (r *ItemRepositoryImpl) GetAllItemNames() (map[int64]string, error) {
	rows, err := r.db.Query("SELECT item_id, name FROM items")
	if err != nil {
		return nil, fmt.Errorf("failed to get item names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var itemID int64
		var name string
		if err := rows.Scan(&itemID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan item name row: %w", err)
		}
		names[itemID] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item name rows: %w", err)
	}

	return names, nil
}

// GetItemSummaries returns per-item sale totals, optionally restricted
// to one guild, ordered by total value sold descending.
func (r *ItemRepositoryImpl) GetItemSummaries(guildID *int) ([]ItemSummary, error) {
	query := `
		SELECT i.item_id, i.item_link, i.name,
		       COUNT(s.sale_id),
		       COALESCE(SUM(s.quantity), 0),
		       COALESCE(SUM(s.price), 0),
		       CAST(CASE
		           WHEN SUM(s.quantity) > 0 THEN COALESCE(SUM(s.price) / CAST(SUM(s.quantity) AS REAL), 0)
		           ELSE 0
		       END AS INTEGER),
		       CAST(COALESCE(MIN(s.price / CAST(s.quantity AS REAL)), 0) AS INTEGER),
		       CAST(COALESCE(MAX(s.price / CAST(s.quantity AS REAL)), 0) AS INTEGER)
		FROM items i
		INNER JOIN item_sales s ON i.item_id = s.item_id
	`
	var args []interface{}
	if guildID != nil {
		query += " WHERE s.guild_id = ?"
		args = append(args, *guildID)
	}
	query += `
		GROUP BY i.item_id, i.item_link, i.name
		ORDER BY SUM(s.price) DESC
	`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get item summaries: %w", err)
	}
	defer rows.Close()

	var summaries []ItemSummary
	for rows.Next() {
		var s ItemSummary
		err := rows.Scan(
			&s.ItemID, &s.ItemLink, &s.Name,
			&s.TotalSalesCount, &s.TotalQuantitySold, &s.TotalValueSold,
			&s.AveragePrice, &s.MinPrice, &s.MaxPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item summary rows: %w", err)
	}

	return summaries, nil
}
