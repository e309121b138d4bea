package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aerobook/internal/web"
	"aerobook/pkg/backend"
	"aerobook/pkg/cache"
	"aerobook/pkg/logger"
	"aerobook/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client drives the wizard over HTTP with a sticky session cookie, the way
// the browser app does.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newWizardClient(t *testing.T, be *fakeBackend, opts Options) (*client, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewWithWriter("development", &bytes.Buffer{})
	mgr := session.NewManager(cache.NewMemoryCache(), log, 30)
	handler := NewHandler(NewService(be, stubGenerator{}, log, opts))

	router := gin.New()
	router.Use(mgr.Middleware())
	handler.RegisterRoutes(router)

	return &client{t: t, router: router}, mgr
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if got := rec.Result().Cookies(); len(got) > 0 {
		c.cookies = got
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestBookingFlow_StartWithoutFlightRedirects(t *testing.T) {
	c, _ := newWizardClient(t, &fakeBackend{}, Options{})

	rec := c.do(http.MethodPost, "/api/booking/start", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "/", body["redirect"])
	assert.Equal(t, string(web.ErrorCodeMissingPrecondition), body["code"])
}

func TestBookingFlow_EndToEnd(t *testing.T) {
	be := &fakeBackend{}
	c, _ := newWizardClient(t, be, Options{})

	// Entering with an explicit hand-off needs no prior session state.
	rec := c.do(http.MethodPost, "/api/booking/start", map[string]any{
		"flight": map[string]any{
			"offer":      map[string]any{"id": "OF-100", "price": 420, "currency": "USD"},
			"grandTotal": 420,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, string(StepPassengers), body["step"])

	rec = c.do(http.MethodPost, "/api/booking/passengers", map[string]any{
		"passengers": []any{map[string]any{
			"type": backend.PaxAdult, "firstName": "Ada", "lastName": "Lovelace", "dob": "1990-01-01",
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(StepContact), decode(t, rec)["step"])

	// A reload between steps recovers the wizard where it left off.
	rec = c.do(http.MethodGet, "/api/booking", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(StepContact), decode(t, rec)["step"])

	rec = c.do(http.MethodPost, "/api/booking/contact", map[string]any{
		"contactInfo": map[string]any{"email": "ada@example.com", "phoneCountryCode": "92", "phone": "3001234567"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(StepReview), decode(t, rec)["step"])

	rec = c.do(http.MethodPost, "/api/booking/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "/booking-result", body["redirect"])
	assert.Equal(t, "tok42", be.lastBooking.IdempotencyKey)

	rec = c.do(http.MethodGet, "/api/booking/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BK-1", decode(t, rec)["bookingId"])

	// The result reads once; a second visit has nothing to show.
	rec = c.do(http.MethodGet, "/api/booking/result", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingFlow_SessionsAreIsolated(t *testing.T) {
	be := &fakeBackend{}
	c1, _ := newWizardClient(t, be, Options{})

	rec := c1.do(http.MethodPost, "/api/booking/start", map[string]any{
		"flight": map[string]any{
			"offer":      map[string]any{"id": "OF-100", "price": 420, "currency": "USD"},
			"grandTotal": 420,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Same router, fresh cookie: no trip state visible.
	c2 := &client{t: t, router: c1.router}
	rec = c2.do(http.MethodPost, "/api/booking/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
