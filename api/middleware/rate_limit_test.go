package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/gomega"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter(t *testing.T) {
	g := NewWithT(t)

	limiter := NewIPRateLimiter(rate.Limit(1), 2, time.Hour)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	e := echo.New()
	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	call := func(ip string) (int, string) {
		req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		err := handler(e.NewContext(req, rec))
		if httpErr, ok := err.(*echo.HTTPError); ok {
			return httpErr.Code, rec.Header().Get("Retry-After")
		}
		return rec.Code, ""
	}

	status, _ := call("10.0.0.1")
	g.Expect(status).To(Equal(http.StatusNoContent))
	status, _ = call("10.0.0.1")
	g.Expect(status).To(Equal(http.StatusNoContent))

	status, retryAfter := call("10.0.0.1")
	g.Expect(status).To(Equal(http.StatusTooManyRequests))
	g.Expect(retryAfter).To(Equal("1"))

	status, _ = call("10.0.0.2")
	g.Expect(status).To(Equal(http.StatusNoContent))

	now = now.Add(time.Second)
	status, _ = call("10.0.0.1")
	g.Expect(status).To(Equal(http.StatusNoContent))
}

func TestIPRateLimiter_EvictsIdleVisitors(t *testing.T) {
	g := NewWithT(t)

	limiter := NewIPRateLimiter(rate.Limit(1), 1, time.Minute)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.limiter("10.0.0.1", now)
	now = now.Add(2 * time.Minute)
	limiter.limiter("10.0.0.2", now)

	g.Expect(limiter.visitors).To(HaveLen(1))
	g.Expect(limiter.visitors).To(HaveKey("10.0.0.2"))
}
