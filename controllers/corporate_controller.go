package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-billing-backend/services"
)

type CorporateController struct {
	Service *services.CorporateService
	Folios  *services.FolioService
}

func NewCorporateController(service *services.CorporateService, folios *services.FolioService) *CorporateController {
	return &CorporateController{Service: service, Folios: folios}
}

// GetAccount (GET /api/properties/:propertyId/corporate-accounts/:id)
func (cc *CorporateController) GetAccount(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	accountID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	account, err := cc.Service.GetAccount(propertyID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// CreditCheck (GET /api/properties/:propertyId/corporate-accounts/:id/credit-check?amount=250)
//
// Advisory: the UI disables the billing action on overLimit, the billing
// mutation re-validates on its own.
func (cc *CorporateController) CreditCheck(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	accountID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	amount := decimal.Zero
	if raw := c.Query("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid amount parameter",
			})
			return
		}
		amount = parsed
	}

	exposure, err := cc.Service.Exposure(propertyID, accountID, amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exposure)
}

// OpenFolios (GET /api/properties/:propertyId/corporate-accounts/:id/open-folios)
func (cc *CorporateController) OpenFolios(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	accountID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	folios, err := cc.Folios.ListOpenFoliosByCorporateAccount(propertyID, accountID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, folios)
}
