package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/marketlens/market-lens/app/config"
	"github.com/marketlens/market-lens/app/database"
	"github.com/marketlens/market-lens/app/parser"
)

type ImportSourceTask struct {
	Task
	SourceConfig *config.Config
	parser       *parser.Parser
	saleRepo     database.SaleRepository
}

func NewImportSourceTask(sourceName string, sourceConfig *config.Config, p *parser.Parser, saleRepo database.SaleRepository) *ImportSourceTask {
	return &ImportSourceTask{
		Task:         NewTask(TaskTypeImportSource, sourceName),
		SourceConfig: sourceConfig,
		parser:       p,
		saleRepo:     saleRepo,
	}
}

func (t *ImportSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := os.ReadFile(t.SourceConfig.Path)
	if err != nil {
		return fmt.Errorf("failed to read dump file: %w", err)
	}

	sales, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse dump: %w", err)
	}

	records := make([]database.SaleRecord, 0, len(sales))
	for _, sale := range sales {
		records = append(records, database.SaleRecord{
			ItemLink:       sale.ItemLink,
			GuildID:        sale.GuildID,
			GuildName:      sale.GuildName,
			Seller:         sale.Seller,
			Buyer:          sale.Buyer,
			Quantity:       sale.Quantity,
			Price:          sale.Price,
			SaleTimestamp:  sale.SaleTimestamp,
			DuplicateIndex: sale.DuplicateIndex,
		})
	}

	result, err := t.saleRepo.ImportSales(records)
	if err != nil {
		return fmt.Errorf("failed to import sales: %w", err)
	}

	slog.Info("Task completed",
		"type", "ImportSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", result.Total,
		"duplicates", result.Duplicates,
		"new", result.Inserted)

	return nil
}
