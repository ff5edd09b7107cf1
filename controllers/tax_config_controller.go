package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing-backend/config"
	"hotel-billing-backend/models"
)

// Tax configuration is property setup, not ledger logic; plain CRUD over
// the config store is enough here.

// GetTaxConfigs (GET /api/properties/:propertyId/tax-configs)
func GetTaxConfigs(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var configs []models.TaxConfig
	if err := config.DB.Where("property_id = ?", propertyID).
		Order("calculation_order asc, id asc").
		Find(&configs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, configs)
}

// CreateTaxConfig (POST /api/properties/:propertyId/tax-configs)
func CreateTaxConfig(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var cfg models.TaxConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}
	cfg.ID = 0
	cfg.PropertyID = propertyID
	if cfg.ChargeType == "" {
		cfg.ChargeType = models.TaxChargeTypeTax
	}

	if err := config.DB.Create(&cfg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// DeactivateTaxConfig (POST /api/properties/:propertyId/tax-configs/:id/deactivate)
func DeactivateTaxConfig(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	configID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	res := config.DB.Model(&models.TaxConfig{}).
		Where("id = ? AND property_id = ?", configID, propertyID).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": res.Error.Error(),
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Tax config not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
