package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/posts/:post_id/reactions", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/posts/1/reactions", "/posts/2/reactions", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/posts/:post_id/reactions", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Zero(t, testutil.ToFloat64(m.httpInFlight))
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.ObservePost("created")
	m.ObservePost("created")
	m.ObservePost("duplicate")
	m.ObserveComposite(20*time.Millisecond, nil)
	m.ObserveComposite(time.Millisecond, errors.New("bad image"))
	m.ObserveNotification("new_post")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.posts.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.posts.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("new_post")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.compositeDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObservePost("created")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `dualshot_posts_admissions_total{result="created"} 1`))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePost("created")
		m.ObserveComposite(time.Second, nil)
		m.ObserveNotification("reaction")
	})
}
