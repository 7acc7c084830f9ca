package database

import "time"

// Item is a unique tradeable identified by its item link text. The
// numeric id is assigned on first sight and never changes; it scopes
// the sale content hash and groups reporting data.
type Item struct {
	ItemID   int64
	ItemLink string
	Name     string // display name, empty until set manually
}

// Sale is a persisted sale row joined with its item link.
type Sale struct {
	SaleID         int64
	ItemID         int64
	ItemLink       string
	GuildID        int
	GuildName      string
	Seller         string
	Buyer          string
	Quantity       int
	Price          int
	SaleTimestamp  int64 // epoch seconds
	DuplicateIndex int
}

// SaleTime returns the sale instant.
func (s Sale) SaleTime() time.Time {
	return time.Unix(s.SaleTimestamp, 0)
}

// TotalValue is the sale's price multiplied by quantity. Derived, never
// stored.
func (s Sale) TotalValue() int64 {
	return int64(s.Price) * int64(s.Quantity)
}

// Guild is a distinct (id, name) pair observed in the sale set.
type Guild struct {
	GuildID   int
	GuildName string
}

// ItemSummary aggregates all sales of one item.
type ItemSummary struct {
	ItemID            int64
	ItemLink          string
	Name              string
	TotalSalesCount   int
	TotalQuantitySold int64
	TotalValueSold    int64
	AveragePrice      int64
	MinPrice          int64
	MaxPrice          int64
}

// GuildItemSummary aggregates one item's sales within one guild.
type GuildItemSummary struct {
	ItemID            int64
	ItemLink          string
	Name              string
	GuildID           int
	GuildName         string
	TotalValueSold    int64
	TotalSalesCount   int
	TotalQuantitySold int64
}
