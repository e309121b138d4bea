package pricing

import (
	"fmt"
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
	router.POST("/api/flights/price", h.PriceHandler)
}

type priceRequest struct {
	OfferID string `json:"offerId"`
}

// View is the itemized breakdown the detail page renders.
type View struct {
	Flight       backend.PricedFlight `json:"flight"`
	DisplayTotal string               `json:"displayTotal"`
	Lines        []LineView           `json:"lines"`
}

type LineView struct {
	Label    string `json:"label"`
	Subtotal string `json:"subtotal"`
}

// PriceHandler godoc
// @Summary      Live-price a selected offer
// @Description  Re-quote the offer against the backend and store the confirmed price for booking
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body priceRequest true "Offer selection"
// @Success      200 {object} View
// @Failure      409 {object} map[string]interface{}
// @Router       /api/flights/price [post]
func (h *Handler) PriceHandler(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OfferID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}

	pf, err := h.service.PriceOffer(c.Request.Context(), web.TripStore(c), req.OfferID)
	if err != nil {
		web.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, newView(*pf))
}

func newView(pf backend.PricedFlight) View {
	currency := pf.Breakdown.Currency
	if currency == "" {
		currency = pf.Offer.Currency
	}

	view := View{
		Flight:       pf,
		DisplayTotal: money(currency, pf.GrandTotal),
		Lines:        make([]LineView, 0, len(pf.TypeTotals)),
	}
	for _, tt := range pf.TypeTotals {
		label := fmt.Sprintf("%s x%d", paxLabel(tt.Type), tt.Quantity)
		view.Lines = append(view.Lines, LineView{
			Label:    label,
			Subtotal: money(currency, tt.Subtotal),
		})
	}
	return view
}

func money(currency string, amount float64) string {
	return fmt.Sprintf("%s %s", currency, humanize.CommafWithDigits(amount, 2))
}

func paxLabel(paxType string) string {
	switch paxType {
	case backend.PaxAdult:
		return "Adult"
	case backend.PaxChild:
		return "Child"
	case backend.PaxInfant:
		return "Infant"
	default:
		return paxType
	}
}
