package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// anchorMarker is the saved-variables assignment the trading addon
// writes its data under. Everything before it is ignored.
const anchorMarker = "ManuGuildHelper_SavedData"

// Field tags of the compressed sale format:
// l = item link, b = buyer, s = seller, n = quantity, p = price,
// ts = sale timestamp (epoch seconds).
var (
	itemLinkPattern  = regexp.MustCompile(`\["l"\]\s*=\s*"([^"]+)"`)
	buyerPattern     = regexp.MustCompile(`\["b"\]\s*=\s*"([^"]+)"`)
	sellerPattern    = regexp.MustCompile(`\["s"\]\s*=\s*"([^"]+)"`)
	quantityPattern  = regexp.MustCompile(`\["n"\]\s*=\s*(\d+)`)
	pricePattern     = regexp.MustCompile(`\["p"\]\s*=\s*(\d+)`)
	timestampPattern = regexp.MustCompile(`\["ts"\]\s*=\s*(\d+)`)
	guildNamePattern = regexp.MustCompile(`\["guildName"\]\s*=\s*"([^"]+)"`)
	entryKeyPattern  = regexp.MustCompile(`\[(\d+)\]`)
)

// Parser recovers sale records from saved-variables dump text.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses raw dump file contents and returns all recovered sales in
// encounter order. Duplicate indexing is scoped to this call: the
// counter map is created fresh here and never survives the call, so
// re-parsing the same text always yields the same indexes.
func (p *Parser) Run(data []byte) ([]Sale, error) {
	content, err := decodeDump(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dump text: %w", err)
	}

	duplicateCounters := make(map[dupKey]int)

	var sales []Sale
	entries := extractGuildEntries(content)
	for _, entry := range entries {
		for _, block := range extractSaleBlocks(entry.SalesInner) {
			sale := parseSale(block, duplicateCounters)
			sale.GuildID = entry.GuildID
			sale.GuildName = entry.GuildName
			sales = append(sales, sale)
		}
	}

	slog.Debug("Dump parsed", "guilds", len(entries), "sales", len(sales))
	return sales, nil
}

// decodeDump converts raw file bytes to a string, honoring a leading
// BOM (UTF-8, UTF-16 LE/BE). Dumps are written by Windows game clients
// and occasionally carry one.
func decodeDump(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// extractGuildEntries locates the anchored root table and iterates its
// top-level [guildId] = { ... } entries. Malformed entries (missing '='
// or missing opening brace) are skipped without aborting the scan.
func extractGuildEntries(content string) []guildEntry {
	var entries []guildEntry

	anchorIdx := strings.Index(content, anchorMarker)
	if anchorIdx == -1 {
		return entries
	}
	rootBrace := strings.IndexByte(content[anchorIdx:], '{')
	if rootBrace == -1 {
		return entries
	}
	rootSpan, ok := extractBalancedSpan(content, anchorIdx+rootBrace)
	if !ok {
		return entries
	}
	rootInner := trimOuterBraces(rootSpan)

	i := 0
	for i < len(rootInner) {
		keyStart := strings.IndexByte(rootInner[i:], '[')
		if keyStart == -1 {
			break
		}
		keyStart += i
		equalsIdx := strings.IndexByte(rootInner[keyStart:], '=')
		if equalsIdx == -1 {
			break
		}
		equalsIdx += keyStart
		braceStart := strings.IndexByte(rootInner[equalsIdx:], '{')
		if braceStart == -1 {
			i = equalsIdx + 1
			continue
		}
		braceStart += equalsIdx

		span, ok := extractBalancedSpan(rootInner, braceStart)
		if !ok {
			i = braceStart + 1
			continue
		}
		inner := trimOuterBraces(span)

		guildID := 0
		if m := entryKeyPattern.FindStringSubmatch(rootInner[keyStart:equalsIdx]); m != nil {
			guildID, _ = strconv.Atoi(m[1])
		}

		guildName := fmt.Sprintf("Guild %d", guildID)
		if m := guildNamePattern.FindStringSubmatch(inner); m != nil {
			guildName = m[1]
		}

		salesInner := ""
		if salesIdx := strings.Index(inner, `["sales"]`); salesIdx != -1 {
			if salesBrace := strings.IndexByte(inner[salesIdx:], '{'); salesBrace != -1 {
				if salesSpan, ok := extractBalancedSpan(inner, salesIdx+salesBrace); ok {
					salesInner = trimOuterBraces(salesSpan)
				}
			}
		}

		entries = append(entries, guildEntry{
			GuildID:    guildID,
			GuildName:  guildName,
			SalesInner: salesInner,
		})
		i = braceStart + len(span)
	}

	return entries
}

// extractSaleBlocks iterates the [seq] = { ... } entries of one guild's
// sales table and returns each block's inner text. Blocks that are only
// whitespace are dropped.
func extractSaleBlocks(salesInner string) []string {
	var blocks []string

	i := 0
	for i < len(salesInner) {
		keyStart := strings.IndexByte(salesInner[i:], '[')
		if keyStart == -1 {
			break
		}
		keyStart += i
		equalsIdx := strings.IndexByte(salesInner[keyStart:], '=')
		if equalsIdx == -1 {
			break
		}
		equalsIdx += keyStart
		braceStart := strings.IndexByte(salesInner[equalsIdx:], '{')
		if braceStart == -1 {
			i = equalsIdx + 1
			continue
		}
		braceStart += equalsIdx

		span, ok := extractBalancedSpan(salesInner, braceStart)
		if !ok {
			i = braceStart + 1
			continue
		}

		inner := trimOuterBraces(span)
		if strings.TrimSpace(inner) != "" {
			blocks = append(blocks, inner)
		}
		i = braceStart + len(span)
	}

	return blocks
}

// parseSale matches the six field patterns independently against one
// sale block and assigns the duplicate index from the per-call counter
// map. A block matching none of the patterns still yields a record.
func parseSale(block string, duplicateCounters map[dupKey]int) Sale {
	var sale Sale

	if m := itemLinkPattern.FindStringSubmatch(block); m != nil {
		sale.ItemLink = m[1]
	}
	if m := buyerPattern.FindStringSubmatch(block); m != nil {
		sale.Buyer = m[1]
	}
	if m := sellerPattern.FindStringSubmatch(block); m != nil {
		sale.Seller = m[1]
	}
	if m := quantityPattern.FindStringSubmatch(block); m != nil {
		sale.Quantity, _ = strconv.Atoi(m[1])
	}
	if m := pricePattern.FindStringSubmatch(block); m != nil {
		sale.Price, _ = strconv.Atoi(m[1])
	}
	if m := timestampPattern.FindStringSubmatch(block); m != nil {
		sale.SaleTimestamp, _ = strconv.ParseInt(m[1], 10, 64)
	}

	key := dupKey{
		Timestamp: sale.SaleTimestamp,
		Seller:    sale.Seller,
		Buyer:     sale.Buyer,
		Quantity:  sale.Quantity,
		Price:     sale.Price,
		ItemLink:  sale.ItemLink,
	}
	duplicateCounters[key]++
	sale.DuplicateIndex = duplicateCounters[key]

	return sale
}
