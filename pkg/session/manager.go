package session

import (
	"time"

	"aerobook/pkg/cache"
	"aerobook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cookieName = "aerobook_sid"
	contextKey = "session_store"
)

// Manager issues session cookies and hands each request its Store.
type Manager struct {
	cache  cache.Cache
	logger logger.Client
	ttl    time.Duration
}

func NewManager(c cache.Cache, log logger.Client, ttlMinutes int) *Manager {
	return &Manager{
		cache:  c,
		logger: log,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// Middleware ensures the request carries a session cookie and binds the
// session Store into the gin context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			maxAge := int(m.ttl.Seconds())
			c.SetCookie(cookieName, sid, maxAge, "/", "", false, true)
		}

		c.Set(contextKey, newStore(m.cache, m.logger, sid, m.ttl))
		c.Next()
	}
}

// FromContext returns the Store bound by Middleware. It panics if the
// middleware is not installed, which is a wiring bug.
func FromContext(c *gin.Context) *Store {
	return c.MustGet(contextKey).(*Store)
}

// StoreFor builds a Store for an explicit session ID. Used by tests.
func (m *Manager) StoreFor(sid string) *Store {
	return newStore(m.cache, m.logger, sid, m.ttl)
}
