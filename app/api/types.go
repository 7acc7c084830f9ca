package api

import (
	"github.com/marketlens/market-lens/app/config"
	"github.com/marketlens/market-lens/app/database"
	"github.com/marketlens/market-lens/app/parser"
	"github.com/marketlens/market-lens/app/report"
	"github.com/marketlens/market-lens/app/tasks"
)

type Handler struct {
	itemRepo    database.ItemRepository
	saleRepo    database.SaleRepository
	aggregator  *report.Aggregator
	configCache *config.Cache
	parser      *parser.Parser
	scheduler   tasks.TaskSchedulerInterface
}
