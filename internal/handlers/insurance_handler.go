package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"insurance-service/internal/services"
)

type InsuranceHandler struct {
	Insurance *services.InsuranceService
}

func NewInsuranceHandler(insurance *services.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{Insurance: insurance}
}

func (h *InsuranceHandler) Submit(c *gin.Context) {
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format. planType, members array, and mobileNumber are required"})
		return
	}

	result, err := h.Insurance.Submit(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSubmission) || errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Insurance submission error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Insurance submitted successfully",
		"data":    result,
	})
}

func (h *InsuranceHandler) GetAll(c *gin.Context) {
	details, err := h.Insurance.ListAll()
	if err != nil {
		log.Printf("Get insurance details error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *InsuranceHandler) GetByMobile(c *gin.Context) {
	mobileNumber := c.Param("mobileNumber")
	if mobileNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mobile number is required"})
		return
	}

	plans, err := h.Insurance.FindByMobile(mobileNumber)
	if err != nil {
		log.Printf("Get user insurance error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

type UpdateStatusRequest struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	services.ReconciliationFields
}

func (h *InsuranceHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TransactionID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transactionId and status are required"})
		return
	}

	row, err := h.Insurance.UpdateStatusByTransactionID(req.TransactionID, req.Status, req.ReconciliationFields)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Update status error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// row is nil when the transaction already held the status; that is
	// a success-no-op, not an error.
	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"data":    row,
	})
}
