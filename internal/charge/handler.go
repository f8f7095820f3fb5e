package charge

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"chargeledger/internal/api"
	"chargeledger/internal/auth"
	"chargeledger/internal/events"
	"chargeledger/internal/ledger"
	"chargeledger/internal/phone"
	"chargeledger/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(store *ledger.Store, publisher events.Publisher, notifier Notifier) *Handler {
	svc := NewService(
		NewRepository(store),
		phone.NewRepository(store.DB()),
		user.NewRepository(store.DB()),
		publisher,
		notifier,
	)
	return &Handler{service: svc}
}

func NewHandlerWithService(svc Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) CreateCreditRequest(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateCreditRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount is required"})
		return
	}

	cr, err := h.service.CreateCreditRequest(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrAmountNotPositive) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create credit request"})
		return
	}

	c.JSON(http.StatusCreated, cr)
}

func (h *Handler) ListCreditRequests(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	requests, err := h.service.ListCreditRequests(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load credit requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *Handler) ApproveCreditRequest(c *gin.Context) {
	h.reviewCreditRequest(c, h.service.ApproveCreditRequest)
}

func (h *Handler) RejectCreditRequest(c *gin.Context) {
	h.reviewCreditRequest(c, h.service.RejectCreditRequest)
}

func (h *Handler) reviewCreditRequest(c *gin.Context, review func(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error)) {
	requestID, err := strconv.Atoi(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request id"})
		return
	}

	var req ReviewInput
	_ = c.ShouldBindJSON(&req)

	cr, err := review(c.Request.Context(), requestID, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			// Idempotent no-op: report the outcome with the unchanged record.
			c.JSON(http.StatusOK, gin.H{"detail": "already processed", "request": cr})
		case errors.Is(err, ledger.ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "credit request not found"})
		case errors.Is(err, ledger.ErrBusy):
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "record busy, retry the operation"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to process credit request"})
		}
		return
	}

	c.JSON(http.StatusOK, cr)
}

func (h *Handler) CreateChargeSale(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateChargeSaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount and phone_number_id are required"})
		return
	}

	sale, err := h.service.CreateChargeSale(c.Request.Context(), userID, req.PhoneNumberID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrAmountNotPositive), errors.Is(err, ErrPhoneInactive), errors.Is(err, phone.ErrPhoneNotFound):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrInsufficientCredit):
			c.JSON(http.StatusBadRequest, api.DetailResponse{Detail: "insufficient credit"})
		case errors.Is(err, ledger.ErrNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		case errors.Is(err, ledger.ErrBusy):
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "record busy, retry the operation"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create charge sale"})
		}
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) ListChargeSales(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sales, err := h.service.ListChargeSales(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load charge sales"})
		return
	}

	c.JSON(http.StatusOK, sales)
}
