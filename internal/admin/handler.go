package admin

import (
	"net/http"

	"aerobook/internal/web"
	"aerobook/pkg/backend"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/admin/bookings/pending", h.PendingHandler)
	router.POST("/api/admin/bookings/:id/approve", h.ApproveHandler)
	router.POST("/api/admin/bookings/:id/reject", h.RejectHandler)
}

// BookingView is one row of the review queue with its total pre-formatted
// for display.
type BookingView struct {
	backend.PendingBooking
	DisplayTotal string `json:"displayTotal"`
}

type queueView struct {
	Bookings []BookingView `json:"bookings"`
	Total    int           `json:"total"`
}

type approveRequest struct {
	AdminNotes string `json:"adminNotes"`
}

type rejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

// PendingHandler godoc
// @Summary      Bookings awaiting review
// @Tags         admin
// @Produce      json
// @Success      200 {object} queueView
// @Failure      502 {object} map[string]interface{}
// @Router       /api/admin/bookings/pending [get]
func (h *Handler) PendingHandler(c *gin.Context) {
	bookings, err := h.service.Pending(c.Request.Context())
	if err != nil {
		web.SendError(c, err)
		return
	}

	view := queueView{Bookings: make([]BookingView, 0, len(bookings)), Total: len(bookings)}
	for _, b := range bookings {
		view.Bookings = append(view.Bookings, BookingView{
			PendingBooking: b,
			DisplayTotal:   displayTotal(b.Flight),
		})
	}
	c.JSON(http.StatusOK, view)
}

// ApproveHandler godoc
// @Summary      Approve a held booking
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking id"
// @Param        request body approveRequest false "Optional notes"
// @Success      200 {object} backend.AdminActionResponse
// @Failure      400 {object} map[string]interface{}
// @Router       /api/admin/bookings/{id}/approve [post]
func (h *Handler) ApproveHandler(c *gin.Context) {
	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid JSON body",
				"code":  web.ErrorCodeValidation,
			})
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), req.AdminNotes)
	if err != nil {
		web.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RejectHandler godoc
// @Summary      Reject a held booking
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking id"
// @Param        request body rejectRequest true "Mandatory reason"
// @Success      200 {object} backend.AdminActionResponse
// @Failure      400 {object} map[string]interface{}
// @Router       /api/admin/bookings/{id}/reject [post]
func (h *Handler) RejectHandler(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.Param("id"), req.RejectionReason)
	if err != nil {
		web.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func displayTotal(pf backend.PricedFlight) string {
	currency := pf.Breakdown.Currency
	if currency == "" {
		currency = pf.Offer.Currency
	}
	return currency + " " + humanize.CommafWithDigits(pf.GrandTotal, 2)
}
