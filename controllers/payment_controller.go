package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-billing-backend/services"
)

type PaymentController struct {
	Payments      *services.PaymentService
	Distributions *services.DistributionService
}

func NewPaymentController(payments *services.PaymentService, distributions *services.DistributionService) *PaymentController {
	return &PaymentController{Payments: payments, Distributions: distributions}
}

type recordPaymentRequest struct {
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Method             string          `json:"method" binding:"required"`
	Reference          string          `json:"reference"`
	Notes              string          `json:"notes"`
	PostedBy           string          `json:"postedBy"`
	CorporateAccountID *uint           `json:"corporateAccountId"`
}

// RecordPayment (POST /api/properties/:propertyId/folios/:id/payments)
func (pc *PaymentController) RecordPayment(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	folioID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	folio, payment, err := pc.Payments.RecordPayment(propertyID, folioID, req.Amount, req.Method, services.PaymentOptions{
		Reference:          req.Reference,
		Notes:              req.Notes,
		PostedBy:           req.PostedBy,
		CorporateAccountID: req.CorporateAccountID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folio": folio, "payment": payment})
}

type billCorporateRequest struct {
	AccountID      uint            `json:"accountId" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Notes          string          `json:"notes"`
	PostedBy       string          `json:"postedBy"`
	AllowOverLimit bool            `json:"allowOverLimit"`
}

// BillCorporate (POST /api/properties/:propertyId/folios/:id/bill-corporate)
func (pc *PaymentController) BillCorporate(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	folioID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req billCorporateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	folio, payment, err := pc.Payments.BillCorporateAccount(propertyID, folioID, req.AccountID, req.Amount, services.PaymentOptions{
		Notes:          req.Notes,
		PostedBy:       req.PostedBy,
		AllowOverLimit: req.AllowOverLimit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folio": folio, "payment": payment})
}

// VoidPayment (POST /api/properties/:propertyId/payments/:id/void)
func (pc *PaymentController) VoidPayment(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	paymentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		VoidedBy string `json:"voidedBy"`
	}
	_ = c.ShouldBindJSON(&req)

	folio, payment, err := pc.Payments.VoidPayment(propertyID, paymentID, req.VoidedBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folio": folio, "payment": payment})
}

type distributeRequest struct {
	Allocations        []services.Allocation `json:"allocations"`
	FolioIDs           []uint                `json:"folioIds"`
	PayFullBalance     bool                  `json:"payFullBalance"`
	Direction          string                `json:"direction" binding:"required"`
	Method             string                `json:"method" binding:"required"`
	Reference          string                `json:"reference"`
	Notes              string                `json:"notes"`
	PostedBy           string                `json:"postedBy"`
	CorporateAccountID *uint                 `json:"corporateAccountId"`
	AllowOverLimit     bool                  `json:"allowOverLimit"`
}

// Distribute (POST /api/properties/:propertyId/payments/distribute)
//
// Two shapes: explicit per-folio allocations, or payFullBalance with a
// folio ID list where each folio is settled per its own balance.
func (pc *PaymentController) Distribute(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}
	if req.Direction != services.DirectionPaymentReceived && req.Direction != services.DirectionCorporateBilling {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "direction must be payment_received or corporate_billing",
		})
		return
	}

	opts := services.DistributionOptions{
		Reference:          req.Reference,
		Notes:              req.Notes,
		PostedBy:           req.PostedBy,
		CorporateAccountID: req.CorporateAccountID,
		AllowOverLimit:     req.AllowOverLimit,
	}

	var (
		result services.DistributionResult
		err    error
	)
	if req.PayFullBalance {
		result, err = pc.Distributions.DistributeFullBalances(propertyID, req.FolioIDs, req.Direction, req.Method, opts)
	} else {
		result, err = pc.Distributions.Distribute(propertyID, req.Allocations, req.Direction, req.Method, opts)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
