package handler

import (
	"net/http"
	"strconv"

	"khmercafe/internal/dto"
	"khmercafe/internal/middleware"
	"khmercafe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatesHandler struct{ svc service.RateService }

func NewRatesHandler(svc service.RateService) *RatesHandler {
	return &RatesHandler{svc: svc}
}

// Current returns the effective KHR-per-USD rate after the fallback chain.
func (h *RatesHandler) Current(c *gin.Context) {
	rate, err := h.svc.Current(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usd_to_khr": rate})
}

func (h *RatesHandler) Set(c *gin.Context) {
	var req dto.SetRateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var setBy *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		if uid, err := uuid.Parse(claims.UserID); err == nil {
			setBy = &uid
		}
	}

	resp, err := h.svc.Set(c.Request.Context(), req.UsdToKhr, setBy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RatesHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	resp, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
