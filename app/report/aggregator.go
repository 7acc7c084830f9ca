package report

import (
	"sort"
	"time"

	"github.com/marketlens/market-lens/app/database"
)

type GuildWeekSummary struct {
	GuildID    int       `json:"guild_id"`
	GuildName  string    `json:"guild_name"`
	WeekNumber int       `json:"week_number"`
	WeekStart  time.Time `json:"week_start"`
	WeekEnd    time.Time `json:"week_end"`
	TotalSales int64     `json:"total_sales"`
}

type GuildItemWeekSummary struct {
	GuildID           int    `json:"guild_id"`
	GuildName         string `json:"guild_name"`
	ItemID            int64  `json:"item_id"`
	ItemLink          string `json:"item_link"`
	ItemName          string `json:"item_name"`
	WeekNumber        int    `json:"week_number"`
	TotalSales        int64  `json:"total_sales"`
	SalesCount        int    `json:"sales_count"`
	TotalQuantitySold int64  `json:"total_quantity_sold"`
}

type guildWeekKey struct {
	GuildID    int
	WeekNumber int
}

type guildItemWeekKey struct {
	GuildID    int
	ItemID     int64
	WeekNumber int
}

// Aggregator builds the two trading-week report views. Both are
// single-pass grouped reductions over the complete sale set.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// GuildSalesByWeek groups sales by (guild, trading week) and sums each
// sale's raw price. Note the value definition differs from
// GuildItemSalesByWeek, which sums price times quantity; the asymmetry
// is intentional and must not be unified.
func (a *Aggregator) GuildSalesByWeek(sales []database.Sale, now time.Time) []GuildWeekSummary {
	groups := make(map[guildWeekKey]*GuildWeekSummary)

	for _, sale := range sales {
		week := WeekNumber(sale.SaleTime(), now)
		key := guildWeekKey{GuildID: sale.GuildID, WeekNumber: week}

		summary, ok := groups[key]
		if !ok {
			start, end := WeekBounds(week, now)
			summary = &GuildWeekSummary{
				GuildID:    sale.GuildID,
				GuildName:  sale.GuildName,
				WeekNumber: week,
				WeekStart:  start,
				WeekEnd:    end,
			}
			groups[key] = summary
		}

		summary.TotalSales += int64(sale.Price)
	}

	result := make([]GuildWeekSummary, 0, len(groups))
	for _, summary := range groups {
		result = append(result, *summary)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].WeekStart.Equal(result[j].WeekStart) {
			return result[i].WeekStart.After(result[j].WeekStart)
		}
		return result[i].GuildName < result[j].GuildName
	})

	return result
}

// GuildItemSalesByWeek groups sales by (guild, item, trading week),
// summing price times quantity, counting sales, and summing quantity.
// Display names come from itemNames; unknown ids get an empty name.
func (a *Aggregator) GuildItemSalesByWeek(sales []database.Sale, itemNames map[int64]string, now time.Time) []GuildItemWeekSummary {
	groups := make(map[guildItemWeekKey]*GuildItemWeekSummary)

	for _, sale := range sales {
		week := WeekNumber(sale.SaleTime(), now)
		key := guildItemWeekKey{GuildID: sale.GuildID, ItemID: sale.ItemID, WeekNumber: week}

		summary, ok := groups[key]
		if !ok {
			summary = &GuildItemWeekSummary{
				GuildID:    sale.GuildID,
				GuildName:  sale.GuildName,
				ItemID:     sale.ItemID,
				ItemLink:   sale.ItemLink,
				ItemName:   itemNames[sale.ItemID],
				WeekNumber: week,
			}
			groups[key] = summary
		}

		summary.TotalSales += sale.TotalValue()
		summary.SalesCount++
		summary.TotalQuantitySold += int64(sale.Quantity)
	}

	result := make([]GuildItemWeekSummary, 0, len(groups))
	for _, summary := range groups {
		result = append(result, *summary)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].GuildName != result[j].GuildName {
			return result[i].GuildName < result[j].GuildName
		}
		return result[i].ItemLink < result[j].ItemLink
	})

	return result
}
