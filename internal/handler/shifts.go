package handler

import (
	"net/http"
	"strconv"

	"khmercafe/internal/apierror"
	"khmercafe/internal/dto"
	"khmercafe/internal/middleware"
	"khmercafe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ShiftsHandler struct{ svc service.ShiftService }

func NewShiftsHandler(svc service.ShiftService) *ShiftsHandler {
	return &ShiftsHandler{svc: svc}
}

// cashierFromClaims resolves the authenticated cashier; shifts are always
// scoped to the token owner, never to a client-supplied id.
func cashierFromClaims(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}

func (h *ShiftsHandler) Start(c *gin.Context) {
	cashierID, ok := cashierFromClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Authentication required"))
		return
	}
	var req dto.StartShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Start(c.Request.Context(), cashierID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ShiftsHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shiftID, err := uuid.Parse(req.ShiftID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid shift id"))
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), shiftID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShiftsHandler) Current(c *gin.Context) {
	cashierID, ok := cashierFromClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Authentication required"))
		return
	}
	resp, err := h.svc.Current(c.Request.Context(), cashierID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShiftsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	var cashierID *uuid.UUID
	if raw := c.Query("cashier_id"); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid cashier id"))
			return
		}
		cashierID = &uid
	}

	resp, err := h.svc.List(c.Request.Context(), cashierID, c.Query("status"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
