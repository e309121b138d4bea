package search

import (
	"errors"
	"net/http"
	"strconv"

	"aerobook/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/flights/search", h.SubmitSearchHandler)
	router.GET("/api/flights/results", h.ResultsHandler)
}

// SubmitSearchHandler godoc
// @Summary      Search flights
// @Description  Validate the search form, query the booking backend and store the results in the session
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body Form true "Search form"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /api/flights/search [post]
func (h *Handler) SubmitSearchHandler(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}

	store := web.TripStore(c)
	total, err := h.service.Submit(c.Request.Context(), store, form)
	if err != nil {
		var fieldErrs FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Please correct the highlighted fields",
				"code":   web.ErrorCodeValidation,
				"fields": fieldErrs,
			})
			return
		}
		web.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchSubmitResponse{
		TotalResults: total,
		Redirect:     "/flight-schedule",
	})
}

// ResultsHandler godoc
// @Summary      List stored search results
// @Description  Apply stop-count and max-price filters client-side, without re-querying the backend
// @Tags         flights
// @Produce      json
// @Param        stops     query string  false "Stop filter: all, 0, 1 or 2+"
// @Param        max_price query number  false "Inclusive price ceiling"
// @Param        sort      query string  false "Sort key: price, duration or departure_time"
// @Param        order     query string  false "asc or desc"
// @Success      200 {object} ResultsView
// @Router       /api/flights/results [get]
func (h *Handler) ResultsHandler(c *gin.Context) {
	q := FilterQuery{
		Stops:  c.Query("stops"),
		SortBy: c.Query("sort"),
		Order:  c.DefaultQuery("order", "asc"),
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.MaxPrice = v
		}
	}

	view := h.service.Results(c.Request.Context(), web.TripStore(c), q)
	c.JSON(http.StatusOK, view)
}
