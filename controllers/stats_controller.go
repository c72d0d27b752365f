package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/strategiq/website-backend/models"
	"github.com/strategiq/website-backend/utils"
)

// StatsController provides aggregate dashboard numbers for the admin.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns lead, subscriber, and file counts plus today's page views.
// The payload is cached briefly in Redis; writes invalidate it.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(statsCacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var contactCount int64
	var subscriberCount int64
	var fileCount int64
	var dailyViews int64

	if err := s.db.Model(&models.Contact{}).Count(&contactCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		contactCount = 0
	}
	if err := s.db.Model(&models.Newsletter{}).Where("is_active = ?", true).Count(&subscriberCount).Error; err != nil {
		subscriberCount = 0
	}
	if err := s.db.Model(&models.FileRecord{}).Count(&fileCount).Error; err != nil {
		fileCount = 0
	}

	// Use string date equality to avoid timezone/type mismatches with the DATE column
	today := time.Now().In(time.Local).Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyViews).Error; err != nil {
		dailyViews = 0
	}

	payload := gin.H{
		"contactCount":    contactCount,
		"subscriberCount": subscriberCount,
		"fileCount":       fileCount,
		"dailyViews":      dailyViews,
	}
	utils.CacheSetJSON(statsCacheKey, gin.H{"success": true, "stats": payload}, time.Minute)
	utils.Success(ctx, gin.H{"stats": payload})
}
