package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric label values for operation outcomes.
const (
	MetricStatusSuccess = "success"
	MetricStatusFailed  = "failed"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	loginAttempts     *prometheus.CounterVec
	registrations     *prometheus.CounterVec
	courseOps         *prometheus.CounterVec
	assignmentOps     *prometheus.CounterVec
	teachersPerCourse prometheus.Histogram
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radegast_api_response_time_seconds",
		Help:    "API response time in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radegast_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radegast_auth_login_attempts_total",
		Help: "Total login attempts",
	}, []string{"status"})

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radegast_auth_registrations_total",
		Help: "Total user registrations",
	}, []string{"status"})

	courseOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radegast_course_operations_total",
		Help: "Total course operations",
	}, []string{"operation", "status"})

	assignmentOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radegast_teacher_assignments_total",
		Help: "Total teacher assignment operations",
	}, []string{"operation", "status"})

	teachersPerCourse := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "radegast_teachers_per_course",
		Help:    "Number of teachers assigned per course",
		Buckets: []float64{1, 2, 3, 5, 10, 20},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "radegast_goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, loginAttempts, registrations, courseOps, assignmentOps, teachersPerCourse, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		loginAttempts:     loginAttempts,
		registrations:     registrations,
		courseOps:         courseOps,
		assignmentOps:     assignmentOps,
		teachersPerCourse: teachersPerCourse,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request count and latency.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestTotal.WithLabelValues(method, path, code).Inc()
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordLoginAttempt counts a login outcome.
func (m *MetricsService) RecordLoginAttempt(status string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(status).Inc()
}

// RecordRegistration counts a registration outcome.
func (m *MetricsService) RecordRegistration(status string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(status).Inc()
}

// RecordCourseOperation counts a course operation outcome.
func (m *MetricsService) RecordCourseOperation(operation, status string) {
	if m == nil {
		return
	}
	m.courseOps.WithLabelValues(operation, status).Inc()
}

// RecordAssignmentOperation counts an assignment operation outcome.
func (m *MetricsService) RecordAssignmentOperation(operation, status string) {
	if m == nil {
		return
	}
	m.assignmentOps.WithLabelValues(operation, status).Inc()
}

// ObserveTeachersPerCourse samples the roster size of a course.
func (m *MetricsService) ObserveTeachersPerCourse(count int) {
	if m == nil {
		return
	}
	m.teachersPerCourse.Observe(float64(count))
}
