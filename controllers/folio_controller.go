package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing-backend/services"
)

type FolioController struct {
	Service *services.FolioService
}

func NewFolioController(service *services.FolioService) *FolioController {
	return &FolioController{Service: service}
}

type createFolioRequest struct {
	GuestID       uint  `json:"guestId" binding:"required"`
	ReservationID *uint `json:"reservationId"`
}

// CreateFolio (POST /api/properties/:propertyId/folios)
func (fc *FolioController) CreateFolio(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}

	var req createFolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	folio, err := fc.Service.CreateFolio(propertyID, req.GuestID, req.ReservationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folio)
}

// GetFolio (GET /api/properties/:propertyId/folios/:id)
func (fc *FolioController) GetFolio(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	folioID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	folio, err := fc.Service.GetFolio(propertyID, folioID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, folio)
}

// GetFolioItems (GET /api/properties/:propertyId/folios/:id/items)
func (fc *FolioController) GetFolioItems(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	folioID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	items, err := fc.Service.ListItems(propertyID, folioID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PostCharge (POST /api/properties/:propertyId/folios/:id/charges)
func (fc *FolioController) PostCharge(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	folioID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var input services.LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}
	// Room/business-date keys are reserved for the night audit.
	input.RoomID = nil
	input.BusinessDate = nil

	folio, err := fc.Service.PostCharge(propertyID, folioID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folio)
}

// CloseFolio (POST /api/properties/:propertyId/folios/:id/close)
func (fc *FolioController) CloseFolio(c *gin.Context) {
	propertyID, ok := uintParam(c, "propertyId")
	if !ok {
		return
	}
	folioID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	folio, err := fc.Service.CloseFolio(propertyID, folioID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, folio)
}
