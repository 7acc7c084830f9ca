package database

import (
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewMemoryConnection()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	return db
}

func testRecords() []SaleRecord {
	return []SaleRecord{
		{
			ItemLink:       "item:1",
			GuildID:        5,
			GuildName:      "Dragons",
			Seller:         "Alice",
			Buyer:          "Bob",
			Quantity:       3,
			Price:          900,
			SaleTimestamp:  1700000000,
			DuplicateIndex: 1,
		},
		{
			ItemLink:       "item:2",
			GuildID:        5,
			GuildName:      "Dragons",
			Seller:         "Carol",
			Buyer:          "Dave",
			Quantity:       1,
			Price:          150,
			SaleTimestamp:  1700000100,
			DuplicateIndex: 1,
		},
	}
}

func TestImportSales(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaleRepository(db)

	result, err := repo.ImportSales(testRecords())
	if err != nil {
		t.Fatal(err)
	}

	if result.Total != 2 {
		t.Errorf("Expected total 2, got %d", result.Total)
	}
	if result.Inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", result.Inserted)
	}
	if result.Duplicates != 0 {
		t.Errorf("Expected 0 duplicates, got %d", result.Duplicates)
	}

	count, err := repo.GetSaleCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 persisted sales, got %d", count)
	}
}

func TestImportSales_Idempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaleRepository(db)

	if _, err := repo.ImportSales(testRecords()); err != nil {
		t.Fatal(err)
	}

	// Re-importing the identical batch must not grow the table.
	result, err := repo.ImportSales(testRecords())
	if err != nil {
		t.Fatal(err)
	}

	if result.Inserted != 0 {
		t.Errorf("Expected 0 inserted on re-import, got %d", result.Inserted)
	}
	if result.Duplicates != 2 {
		t.Errorf("Expected 2 duplicates on re-import, got %d", result.Duplicates)
	}

	count, err := repo.GetSaleCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected sale count to stay at 2, got %d", count)
	}
}

func TestImportSales_HashExcludesDuplicateIndex(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaleRepository(db)

	// The content hash excludes the duplicate index, so two records
	// differing only in that field dedup to one persisted row.
	records := testRecords()[:1]
	twin := records[0]
	twin.DuplicateIndex = 2
	records = append(records, twin)

	result, err := repo.ImportSales(records)
	if err != nil {
		t.Fatal(err)
	}

	if result.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", result.Inserted)
	}
	if result.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", result.Duplicates)
	}
}

func TestImportSales_SharedItemResolvesOnce(t *testing.T) {
	db := openTestDB(t)
	saleRepo := NewSaleRepository(db)
	itemRepo := NewItemRepository(db)

	records := testRecords()
	records[1].ItemLink = records[0].ItemLink
	records[1].SaleTimestamp = 1700000200

	if _, err := saleRepo.ImportSales(records); err != nil {
		t.Fatal(err)
	}

	count, err := itemRepo.GetItemCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 item for shared link, got %d", count)
	}
}

func TestGetAllSales(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaleRepository(db)

	if _, err := repo.ImportSales(testRecords()); err != nil {
		t.Fatal(err)
	}

	sales, err := repo.GetAllSales()
	if err != nil {
		t.Fatal(err)
	}

	if len(sales) != 2 {
		t.Fatalf("Expected 2 sales, got %d", len(sales))
	}

	// Newest first
	if sales[0].SaleTimestamp != 1700000100 {
		t.Errorf("Expected newest sale first, got timestamp %d", sales[0].SaleTimestamp)
	}
	if sales[0].ItemLink != "item:2" {
		t.Errorf("Expected item link 'item:2', got '%s'", sales[0].ItemLink)
	}
	if sales[1].Seller != "Alice" {
		t.Errorf("Expected seller 'Alice', got '%s'", sales[1].Seller)
	}
	if sales[1].TotalValue() != 2700 {
		t.Errorf("Expected total value 2700, got %d", sales[1].TotalValue())
	}
}

func TestGetGuilds(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaleRepository(db)

	records := testRecords()
	records[1].GuildID = 2
	records[1].GuildName = "Alchemists"

	if _, err := repo.ImportSales(records); err != nil {
		t.Fatal(err)
	}

	guilds, err := repo.GetGuilds()
	if err != nil {
		t.Fatal(err)
	}

	if len(guilds) != 2 {
		t.Fatalf("Expected 2 guilds, got %d", len(guilds))
	}
	// Ordered by name
	if guilds[0].GuildName != "Alchemists" {
		t.Errorf("Expected 'Alchemists' first, got '%s'", guilds[0].GuildName)
	}
	if guilds[1].GuildName != "Dragons" {
		t.Errorf("Expected 'Dragons' second, got '%s'", guilds[1].GuildName)
	}
}

func TestGetGuildItemSummaries(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaleRepository(db)

	records := testRecords()
	records[1].ItemLink = records[0].ItemLink
	records[1].SaleTimestamp = 1700000200

	if _, err := repo.ImportSales(records); err != nil {
		t.Fatal(err)
	}

	summaries, err := repo.GetGuildItemSummaries()
	if err != nil {
		t.Fatal(err)
	}

	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.TotalSalesCount != 2 {
		t.Errorf("Expected 2 sales counted, got %d", s.TotalSalesCount)
	}
	if s.TotalQuantitySold != 4 {
		t.Errorf("Expected quantity total 4, got %d", s.TotalQuantitySold)
	}
	if s.TotalValueSold != 1050 {
		t.Errorf("Expected value total 1050, got %d", s.TotalValueSold)
	}
}

func TestUpdateItemName(t *testing.T) {
	db := openTestDB(t)
	saleRepo := NewSaleRepository(db)
	itemRepo := NewItemRepository(db)

	if _, err := saleRepo.ImportSales(testRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	names, err := itemRepo.GetAllItemNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(names))
	}

	var itemID int64
	for id := range names {
		itemID = id
	}

	if names[itemID] != "" {
		t.Errorf("Expected empty initial name, got '%s'", names[itemID])
	}

	if err := itemRepo.UpdateItemName(itemID, "Dreugh Wax"); err != nil {
		t.Fatal(err)
	}

	name, err := itemRepo.GetItemName(itemID)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Dreugh Wax" {
		t.Errorf("Expected 'Dreugh Wax', got '%s'", name)
	}

	if err := itemRepo.UpdateItemName(99999, "nope"); err == nil {
		t.Error("Expected error when updating a missing item")
	}
}

func TestGetItemSummaries(t *testing.T) {
	db := openTestDB(t)
	saleRepo := NewSaleRepository(db)
	itemRepo := NewItemRepository(db)

	if _, err := saleRepo.ImportSales(testRecords()); err != nil {
		t.Fatal(err)
	}

	summaries, err := itemRepo.GetItemSummaries(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	// Ordered by total value sold descending
	if summaries[0].TotalValueSold < summaries[1].TotalValueSold {
		t.Error("Expected summaries ordered by total value descending")
	}

	guildID := 5
	filtered, err := itemRepo.GetItemSummaries(&guildID)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 summaries for guild 5, got %d", len(filtered))
	}

	other := 99
	empty, err := itemRepo.GetItemSummaries(&other)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no summaries for unknown guild, got %d", len(empty))
	}
}
