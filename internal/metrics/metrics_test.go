package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodPost, "/api/events/:id/vendors/custom", http.StatusCreated, 15*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/events/:id/vendors/custom", http.StatusCreated, 5*time.Millisecond)
	m.NotificationSent("vendor_invitation")
	m.NotificationFailed("vendor_exit", false)
	m.NotificationFailed("vendor_exit", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "/api/events/:id/vendors/custom", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsSent.WithLabelValues("vendor_invitation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsFailed.WithLabelValues("vendor_exit", "retry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsFailed.WithLabelValues("vendor_exit", "dead")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.NotificationSent("collaborator_invitation")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `outbox_notifications_sent_total{kind="collaborator_invitation"} 1`))
}
