package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketlens/market-lens/app/config"
	"github.com/marketlens/market-lens/app/database"
	"github.com/marketlens/market-lens/app/parser"
	"github.com/marketlens/market-lens/app/report"
	"github.com/marketlens/market-lens/app/tasks"
)

func NewHandler(configCache *config.Cache, itemRepo database.ItemRepository,
	saleRepo database.SaleRepository, p *parser.Parser,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		itemRepo:    itemRepo,
		saleRepo:    saleRepo,
		aggregator:  report.NewAggregator(),
		configCache: configCache,
		parser:      p,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if saleCount, err := h.saleRepo.GetSaleCount(); err == nil {
		health["sales"] = saleCount
	}
	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	saleCount, err := h.saleRepo.GetSaleCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_sale_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	itemCount, err := h.itemRepo.GetItemCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_item_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	guilds, err := h.saleRepo.GetGuilds()
	if err != nil {
		slog.Error("Database error", "operation", "get_guilds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":   saleCount,
		"items":   itemCount,
		"guilds":  len(guilds),
		"sources": h.configCache.GetConfigCount(),
	})
}

func (h *Handler) GetGuilds(c *gin.Context) {
	guilds, err := h.saleRepo.GetGuilds()
	if err != nil {
		slog.Error("Database error", "operation", "get_guilds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]gin.H, 0, len(guilds))
	for _, guild := range guilds {
		result = append(result, gin.H{
			"guild_id":   guild.GuildID,
			"guild_name": guild.GuildName,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"guilds": result,
		"total":  len(result),
	})
}

func (h *Handler) GetItems(c *gin.Context) {
	var guildID *int
	if raw := c.Query("guild_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guild_id parameter"})
			return
		}
		guildID = &id
	}

	summaries, err := h.itemRepo.GetItemSummaries(guildID)
	if err != nil {
		slog.Error("Database error", "operation", "get_item_summaries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]gin.H, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, gin.H{
			"item_id":             summary.ItemID,
			"item_link":           summary.ItemLink,
			"name":                summary.Name,
			"total_sales_count":   summary.TotalSalesCount,
			"total_quantity_sold": summary.TotalQuantitySold,
			"total_value_sold":    summary.TotalValueSold,
			"average_price":       summary.AveragePrice,
			"min_price":           summary.MinPrice,
			"max_price":           summary.MaxPrice,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) GetGuildItemReport(c *gin.Context) {
	summaries, err := h.saleRepo.GetGuildItemSummaries()
	if err != nil {
		slog.Error("Database error", "operation", "get_guild_item_summaries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]gin.H, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, gin.H{
			"guild_id":            summary.GuildID,
			"guild_name":          summary.GuildName,
			"item_id":             summary.ItemID,
			"item_link":           summary.ItemLink,
			"name":                summary.Name,
			"total_sales_count":   summary.TotalSalesCount,
			"total_quantity_sold": summary.TotalQuantitySold,
			"total_value_sold":    summary.TotalValueSold,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"guild_items": result,
		"total":       len(result),
	})
}

func (h *Handler) GetGuildWeekReport(c *gin.Context) {
	sales, err := h.saleRepo.GetAllSales()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_sales", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	summaries := h.aggregator.GuildSalesByWeek(sales, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"weeks": summaries,
		"total": len(summaries),
	})
}

func (h *Handler) GetGuildItemWeekReport(c *gin.Context) {
	sales, err := h.saleRepo.GetAllSales()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_sales", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	itemNames, err := h.itemRepo.GetAllItemNames()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_item_names", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	summaries := h.aggregator.GuildItemSalesByWeek(sales, itemNames, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"weeks": summaries,
		"total": len(summaries),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sources = append(sources, map[string]interface{}{
			"name":             sourceConfig.Name,
			"path":             sourceConfig.Path,
			"enabled":          sourceConfig.Settings.Enabled,
			"refresh_interval": sourceConfig.Settings.GetRefreshInterval().String(),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIImportSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	sourceConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	importTask := tasks.NewImportSourceTask(name, sourceConfig, h.parser, h.saleRepo)
	if err := h.scheduler.EnqueueTask(importTask); err != nil {
		slog.Error("Error enqueueing import task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue import task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Import task enqueued successfully",
		"source": gin.H{
			"name": name,
			"path": sourceConfig.Path,
		},
		"task": gin.H{
			"id":   importTask.ID,
			"type": importTask.Type,
		},
	})
}

func (h *Handler) APIUpdateItemName(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id parameter"})
		return
	}

	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a 'name' field"})
		return
	}

	if err := h.itemRepo.UpdateItemName(itemID, body.Name); err != nil {
		slog.Error("Database error", "operation", "update_item_name", "item_id", itemID, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item": gin.H{
			"item_id": itemID,
			"name":    body.Name,
		},
	})
}
