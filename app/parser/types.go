package parser

// Sale represents a single sale recovered from a saved-variables dump.
// Fields that are missing from the source text keep their zero value;
// a block is never dropped for being incomplete.
type Sale struct {
	ItemLink      string
	GuildID       int
	GuildName     string
	Seller        string
	Buyer         string
	Quantity      int
	Price         int
	SaleTimestamp int64 // epoch seconds

	// DuplicateIndex distinguishes otherwise-identical sales within a
	// single parse call: 1 for the first occurrence, 2 for the second,
	// and so on. It restarts at 1 on every Run.
	DuplicateIndex int
}

// guildEntry is one top-level [guildId] = { ... } entry of the dump,
// holding the raw inner text of its "sales" sub-table.
type guildEntry struct {
	GuildID    int
	GuildName  string
	SalesInner string
}

// dupKey is the exact-tuple key used for duplicate indexing. It keys on
// the item link text, not a resolved item id, because item resolution
// happens later at the persistence layer.
type dupKey struct {
	Timestamp int64
	Seller    string
	Buyer     string
	Quantity  int
	Price     int
	ItemLink  string
}
