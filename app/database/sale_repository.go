package database

import (
	"database/sql"
	"fmt"
)

// SaleRepositoryImpl handles database operations for sales.
type SaleRepositoryImpl struct {
	db *DB
}

var _ SaleRepository = (*SaleRepositoryImpl)(nil)

func NewSaleRepository(db *DB) *SaleRepositoryImpl {
	return &SaleRepositoryImpl{db: db}
}

// ImportSales persists a batch of parsed sales in a single transaction.
// Item ids are resolved (or created) per item link and cached for the
// batch; each sale's content hash is checked against already-persisted
// hashes, and matches are skipped silently. Either every non-duplicate
// row becomes visible or, on any other failure, none do.
func (r *SaleRepositoryImpl) ImportSales(records []SaleRecord) (ImportResult, error) {
	result := ImportResult{Total: len(records)}

	tx, err := r.db.Begin()
	if err != nil {
		return result, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	itemIDs := make(map[string]int64)
	for _, rec := range records {
		itemID, ok := itemIDs[rec.ItemLink]
		if !ok {
			itemID, err = getOrCreateItem(tx, rec.ItemLink)
			if err != nil {
				return result, fmt.Errorf("failed to resolve item %q: %w", rec.ItemLink, err)
			}
			itemIDs[rec.ItemLink] = itemID
		}

		hash := ContentHash(rec.SaleTimestamp, rec.Seller, rec.Buyer, rec.Quantity, rec.Price, itemID)

		var existing int
		err = tx.QueryRow("SELECT COUNT(*) FROM item_sales WHERE content_hash = ?", hash).Scan(&existing)
		if err != nil {
			return result, fmt.Errorf("failed to check for duplicate sale: %w", err)
		}
		if existing > 0 {
			result.Duplicates++
			continue
		}

		_, err = tx.Exec(`
			INSERT INTO item_sales (
				item_id, guild_id, guild_name, seller, buyer,
				quantity, price, sale_timestamp, duplicate_index, content_hash
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, itemID, rec.GuildID, rec.GuildName, rec.Seller, rec.Buyer,
			rec.Quantity, rec.Price, rec.SaleTimestamp, rec.DuplicateIndex, hash)
		if err != nil {
			return result, fmt.Errorf("failed to insert sale: %w", err)
		}
		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit import transaction: %w", err)
	}

	return result, nil
}

func getOrCreateItem(tx *sql.Tx, itemLink string) (int64, error) {
	var itemID int64
	err := tx.QueryRow("SELECT item_id FROM items WHERE item_link = ?", itemLink).Scan(&itemID)
	if err == nil {
		return itemID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := tx.Exec("INSERT INTO items (item_link, name) VALUES (?, '')", itemLink)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SaleRepositoryImpl) GetAllSales() ([]Sale, error) {
	rows, err := r.db.Query(`
		SELECT s.sale_id, s.item_id, i.item_link, s.guild_id, s.guild_name,
		       s.seller, s.buyer, s.quantity, s.price, s.sale_timestamp, s.duplicate_index
		FROM item_sales s
		INNER JOIN items i ON s.item_id = i.item_id
		ORDER BY s.sale_timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		err := rows.Scan(
			&s.SaleID, &s.ItemID, &s.ItemLink, &s.GuildID, &s.GuildName,
			&s.Seller, &s.Buyer, &s.Quantity, &s.Price, &s.SaleTimestamp, &s.DuplicateIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale rows: %w", err)
	}

	return sales, nil
}

func (r *SaleRepositoryImpl) GetSaleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM item_sales").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get sale count: %w", err)
	}
	return count, nil
}

func (r *SaleRepositoryImpl) GetGuilds() ([]Guild, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT guild_id, guild_name
		FROM item_sales
		ORDER BY guild_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get guilds: %w", err)
	}
	defer rows.Close()

	var guilds []Guild
	for rows.Next() {
		var g Guild
		if err := rows.Scan(&g.GuildID, &g.GuildName); err != nil {
			return nil, fmt.Errorf("failed to scan guild row: %w", err)
		}
		guilds = append(guilds, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guild rows: %w", err)
	}

	return guilds, nil
}

// GetGuildItemSummaries returns per guild and item sale totals, ordered
// by guild name then item link.
func (r *SaleRepositoryImpl) GetGuildItemSummaries() ([]GuildItemSummary, error) {
	rows, err := r.db.Query(`
		SELECT i.item_id, i.item_link, i.name, s.guild_id, s.guild_name,
		       COALESCE(SUM(s.price), 0),
		       COUNT(s.sale_id),
		       COALESCE(SUM(s.quantity), 0)
		FROM items i
		INNER JOIN item_sales s ON i.item_id = s.item_id
		GROUP BY i.item_id, i.item_link, i.name, s.guild_id, s.guild_name
		ORDER BY s.guild_name, i.item_link
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild item summaries: %w", err)
	}
	defer rows.Close()

	var summaries []GuildItemSummary
	for rows.Next() {
		var s GuildItemSummary
		err := rows.Scan(
			&s.ItemID, &s.ItemLink, &s.Name, &s.GuildID, &s.GuildName,
			&s.TotalValueSold, &s.TotalSalesCount, &s.TotalQuantitySold,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guild item summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guild item summary rows: %w", err)
	}

	return summaries, nil
}
