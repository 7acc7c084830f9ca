package database

// SaleRecord is a parsed sale handed to the import. The item id is not
// yet resolved; ImportSales resolves or creates it from the item link.
type SaleRecord struct {
	ItemLink       string
	GuildID        int
	GuildName      string
	Seller         string
	Buyer          string
	Quantity       int
	Price          int
	SaleTimestamp  int64
	DuplicateIndex int
}

// ImportResult reports the outcome of one import batch.
type ImportResult struct {
	Total      int
	Inserted   int
	Duplicates int
}

type ItemRepository interface {
	GetItemCount() (int, error)
	GetItemName(itemID int64) (string, error)
	UpdateItemName(itemID int64, name string) error
	GetAllItemNames() (map[int64]string, error)
	GetItemSummaries(guildID *int) ([]ItemSummary, error)
}

type SaleRepository interface {
	// ImportSales persists a batch inside a single transaction. Sales
	// whose content hash is already present are skipped and counted,
	// not treated as failures; any other failure rolls back the whole
	// batch.
	ImportSales(records []SaleRecord) (ImportResult, error)

	GetAllSales() ([]Sale, error)
	GetSaleCount() (int, error)
	GetGuilds() ([]Guild, error)
	GetGuildItemSummaries() ([]GuildItemSummary, error)
}
