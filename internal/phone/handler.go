package phone

import (
	"errors"
	"net/http"
	"strconv"

	"chargeledger/internal/api"
	"chargeledger/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

func (h *Handler) ListActive(c *gin.Context) {
	phones, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load phone numbers"})
		return
	}

	c.JSON(http.StatusOK, phones)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("phoneID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid phone number id"})
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPhoneNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "phone number not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load phone number"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), req.Number, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create phone number"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("phoneID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid phone number id"})
		return
	}

	if err := h.repo.SetActive(c.Request.Context(), id, false); err != nil {
		if errors.Is(err, ErrPhoneNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "phone number not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to deactivate phone number"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "phone number deactivated"})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("phoneID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid phone number id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrPhoneNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "phone number not found"})
		case errors.Is(err, ledger.ErrProtected):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "phone number has charge sales and cannot be deleted"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete phone number"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "phone number deleted"})
}
