package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-billing-backend/services"
)

type NightAuditController struct {
	Service *services.NightAuditService
}

func NewNightAuditController(service *services.NightAuditService) *NightAuditController {
	return &NightAuditController{Service: service}
}

type auditOperatorRequest struct {
	Operator string `json:"operator"`
	Notes    string `json:"notes"`
}

// Start (POST /api/properties/:propertyId/night-audit/start)
func (nc *NightAuditController) Start(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var req auditOperatorRequest
	_ = c.ShouldBindJSON(&req)

	audit, err := nc.Service.Start(propertyID, req.Operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}

// PostCharges (POST /api/properties/:propertyId/night-audit/:id/post-charges)
func (nc *NightAuditController) PostCharges(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	auditID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req auditOperatorRequest
	_ = c.ShouldBindJSON(&req)

	audit, err := nc.Service.PostRoomCharges(propertyID, auditID, req.Operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}

// Complete (POST /api/properties/:propertyId/night-audit/:id/complete)
func (nc *NightAuditController) Complete(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	auditID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req auditOperatorRequest
	_ = c.ShouldBindJSON(&req)

	audit, err := nc.Service.Complete(propertyID, auditID, req.Notes, req.Operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}

// Get (GET /api/properties/:propertyId/night-audit/:id)
func (nc *NightAuditController) Get(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	auditID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	audit, err := nc.Service.Get(propertyID, auditID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}

// ByDate (GET /api/properties/:propertyId/night-audit?date=2025-03-10)
func (nc *NightAuditController) ByDate(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	raw := c.Query("date")
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "date must be YYYY-MM-DD",
		})
		return
	}

	audit, err := nc.Service.ForBusinessDate(propertyID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}
