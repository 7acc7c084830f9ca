package database

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the 64-bit dedup fingerprint of a sale once its
// item id is resolved. The field order and separator are part of the
// persisted format: hashes are compared against values written by
// earlier runs, so changing either invalidates all existing dedup
// history. The duplicate index is deliberately excluded, and the item
// is identified by its stable numeric id rather than the link text.
func ContentHash(saleTimestamp int64, seller, buyer string, quantity, price int, itemID int64) int64 {
	input := fmt.Sprintf("%d|%s|%s|%d|%d|%d", saleTimestamp, seller, buyer, quantity, price, itemID)
	return int64(xxhash.Sum64String(input))
}
