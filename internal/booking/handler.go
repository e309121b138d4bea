package booking

import (
	"net/http"

	"aerobook/internal/web"
	"aerobook/pkg/backend"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/booking/start", h.StartHandler)
	router.GET("/api/booking", h.CurrentHandler)
	router.POST("/api/booking/passengers", h.PassengersHandler)
	router.POST("/api/booking/contact", h.ContactHandler)
	router.POST("/api/booking/contact/send-otp", h.SendOTPHandler)
	router.POST("/api/booking/contact/verify-otp", h.VerifyOTPHandler)
	router.POST("/api/booking/back", h.BackHandler)
	router.POST("/api/booking/submit", h.SubmitHandler)
	router.GET("/api/booking/result", h.ResultHandler)
}

type startRequest struct {
	Flight *backend.PricedFlight `json:"flight,omitempty"`
}

// WizardView is the full wizard snapshot every step endpoint returns, so a
// page reload can rebuild its form from one GET.
type WizardView struct {
	Step       Step                 `json:"step"`
	Passengers []backend.Passenger  `json:"passengers"`
	Contact    *backend.ContactInfo `json:"contact,omitempty"`
	OTP        OTPState             `json:"otp"`
	Flight     backend.PricedFlight `json:"flight"`
}

type passengersRequest struct {
	Passengers []backend.Passenger `json:"passengers"`
}

type contactRequest struct {
	Contact backend.ContactInfo `json:"contactInfo"`
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

// StartHandler godoc
// @Summary      Enter the booking wizard
// @Description  Resolve the priced flight hand-off and seed or resume the wizard
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body startRequest false "Optional priced-flight hand-off"
// @Success      200 {object} WizardView
// @Failure      409 {object} map[string]interface{}
// @Router       /api/booking/start [post]
func (h *Handler) StartHandler(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid JSON body",
				"code":  web.ErrorCodeValidation,
			})
			return
		}
	}

	st, pf, err := h.service.Start(c.Request.Context(), web.TripStore(c), req.Flight)
	if err != nil {
		web.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWizardView(st, *pf))
}

// CurrentHandler godoc
// @Summary      Current wizard snapshot
// @Description  Recover the wizard mid-flow after a reload
// @Tags         booking
// @Produce      json
// @Success      200 {object} WizardView
// @Failure      409 {object} map[string]interface{}
// @Router       /api/booking [get]
func (h *Handler) CurrentHandler(c *gin.Context) {
	st, pf, err := h.service.Start(c.Request.Context(), web.TripStore(c), nil)
	if err != nil {
		web.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWizardView(st, *pf))
}

// PassengersHandler godoc
// @Summary      Submit passenger details
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body passengersRequest true "Passenger details per slot"
// @Success      200 {object} WizardView
// @Failure      400 {object} map[string]interface{}
// @Router       /api/booking/passengers [post]
func (h *Handler) PassengersHandler(c *gin.Context) {
	var req passengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}
	h.respond(c, func() (*State, error) {
		return h.service.SubmitPassengers(c.Request.Context(), web.TripStore(c), req.Passengers)
	})
}

// ContactHandler godoc
// @Summary      Submit contact details
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body contactRequest true "Contact details"
// @Success      200 {object} WizardView
// @Failure      400 {object} map[string]interface{}
// @Router       /api/booking/contact [post]
func (h *Handler) ContactHandler(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}
	h.respond(c, func() (*State, error) {
		return h.service.SubmitContact(c.Request.Context(), web.TripStore(c), req.Contact)
	})
}

// SendOTPHandler godoc
// @Summary      Send an email verification code
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body otpRequest true "Target email"
// @Success      200 {object} WizardView
// @Failure      400 {object} map[string]interface{}
// @Router       /api/booking/contact/send-otp [post]
func (h *Handler) SendOTPHandler(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}
	h.respond(c, func() (*State, error) {
		return h.service.SendOTP(c.Request.Context(), web.TripStore(c), req.Email)
	})
}

// VerifyOTPHandler godoc
// @Summary      Verify an email verification code
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body otpRequest true "Email and code"
// @Success      200 {object} WizardView
// @Failure      400 {object} map[string]interface{}
// @Router       /api/booking/contact/verify-otp [post]
func (h *Handler) VerifyOTPHandler(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  web.ErrorCodeValidation,
		})
		return
	}
	h.respond(c, func() (*State, error) {
		return h.service.VerifyOTP(c.Request.Context(), web.TripStore(c), req.Email, req.Code)
	})
}

// BackHandler godoc
// @Summary      Move one wizard step back
// @Tags         booking
// @Produce      json
// @Success      200 {object} WizardView
// @Failure      409 {object} map[string]interface{}
// @Router       /api/booking/back [post]
func (h *Handler) BackHandler(c *gin.Context) {
	h.respond(c, func() (*State, error) {
		return h.service.Back(c.Request.Context(), web.TripStore(c))
	})
}

// SubmitHandler godoc
// @Summary      Submit the booking
// @Description  Assemble the final request from session state and hand it to the backend
// @Tags         booking
// @Produce      json
// @Success      200 {object} backend.BookingResult
// @Failure      409 {object} map[string]interface{}
// @Router       /api/booking/submit [post]
func (h *Handler) SubmitHandler(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), web.TripStore(c))
	if err != nil {
		web.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":   result,
		"redirect": "/booking-result",
	})
}

// ResultHandler godoc
// @Summary      Booking outcome
// @Description  Pop the stored outcome; a second read reports no booking found
// @Tags         booking
// @Produce      json
// @Success      200 {object} backend.BookingResult
// @Failure      404 {object} map[string]interface{}
// @Router       /api/booking/result [get]
func (h *Handler) ResultHandler(c *gin.Context) {
	result, ok := h.service.Result(c.Request.Context(), web.TripStore(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "No booking found",
			"code":     web.ErrorCodeMissingPrecondition,
			"redirect": "/",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// respond runs a state transition and renders the refreshed wizard view.
// The priced flight is re-resolved so the view always carries it.
func (h *Handler) respond(c *gin.Context, fn func() (*State, error)) {
	st, err := fn()
	if err != nil {
		web.SendError(c, err)
		return
	}

	pf, _ := web.TripStore(c).PricedFlight(c.Request.Context())
	c.JSON(http.StatusOK, newWizardView(st, pf))
}

func newWizardView(st *State, pf backend.PricedFlight) WizardView {
	return WizardView{
		Step:       st.Step,
		Passengers: st.Passengers,
		Contact:    st.Contact,
		OTP:        st.OTP,
		Flight:     pf,
	}
}
