package reconcile

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
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		service: NewService(NewRepository(db)),
	}
}

func NewHandlerWithService(svc Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) ValidateGlobal(c *gin.Context) {
	report, err := h.service.ValidateGlobal(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to run reconciliation"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) ValidateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}

	report, err := h.service.ValidateUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to run reconciliation"})
		return
	}

	c.JSON(http.StatusOK, report)
}
