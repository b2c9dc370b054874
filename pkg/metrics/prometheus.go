// Package metrics provides Prometheus metrics for the matching engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the engine exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Recommendation path
	recommendations      *prometheus.CounterVec
	recommendLatency     prometheus.Histogram
	candidatesScored     prometheus.Counter
	candidatesEligible   prometheus.Histogram
	teamsReturned        prometheus.Histogram
	shortfalls           prometheus.Counter
	enumerations         *prometheus.CounterVec
	teamsEvaluated       prometheus.Histogram
	unresolvedLocations  prometheus.Counter
	missingDistances     prometheus.Counter
	severityDetections   *prometheus.CounterVec

	// Model artifact
	artifactSwaps        prometheus.Counter
	artifactReloadErrors prometheus.Counter
	artifactLoadedUnix   prometheus.Gauge

	// Training
	trainingRuns     *prometheus.CounterVec
	trainingAUC      prometheus.Gauge
	trainingDuration prometheus.Histogram
	trainingPairs    prometheus.Gauge

	// Assignment commits
	commits          prometheus.Counter
	commitDuplicates prometheus.Counter
	commitErrors     prometheus.Counter
	commitQueueDepth prometheus.Gauge
	ledgerVersion    prometheus.Gauge
	notifications    *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gramconnect",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	countBuckets := []float64{0, 1, 2, 5, 10, 20, 50, 100, 500, 1000, 5000}

	m.recommendations = m.counterVec("recommendations_total",
		"Recommendation requests by outcome status", "status")
	m.recommendLatency = m.histogram("recommend_duration_seconds",
		"End-to-end recommendation latency", m.histogramBuckets)
	m.candidatesScored = m.counter("candidates_scored_total",
		"Candidates passed through the goodness scorer")
	m.candidatesEligible = m.histogram("candidates_eligible",
		"Eligible candidates per request after filtering", countBuckets)
	m.teamsReturned = m.histogram("teams_returned",
		"Teams returned per request", countBuckets)
	m.shortfalls = m.counter("shortfalls_total",
		"Requests whose candidate pool was smaller than the team size")
	m.enumerations = m.counterVec("enumerations_total",
		"Team generation runs by strategy", "strategy")
	m.teamsEvaluated = m.histogram("teams_evaluated",
		"Candidate teams scored per request", countBuckets)
	m.unresolvedLocations = m.counter("unresolved_locations_total",
		"Requests without a resolvable target village")
	m.missingDistances = m.counter("missing_distances_total",
		"Candidate distance lookups that fell back to the neutral factor")
	m.severityDetections = m.counterVec("severity_total",
		"Severity assessments by level and source", "level", "source")

	m.artifactSwaps = m.counter("artifact_swaps_total",
		"Model artifact versions published to inference")
	m.artifactReloadErrors = m.counter("artifact_reload_errors_total",
		"Failed attempts to reload the model artifact")
	m.artifactLoadedUnix = m.gauge("artifact_loaded_unix",
		"Unix time the serving artifact was published")

	m.trainingRuns = m.counterVec("training_runs_total",
		"Training runs by outcome", "outcome")
	m.trainingAUC = m.gauge("training_auc",
		"Validation AUC of the last successful training run")
	m.trainingDuration = m.histogram("training_duration_seconds",
		"Training run duration", []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300})
	m.trainingPairs = m.gauge("training_pairs",
		"Labelled pairs used by the last successful training run")

	m.commits = m.counter("assignment_commits_total",
		"Assignments applied to the hours ledger")
	m.commitDuplicates = m.counter("assignment_duplicates_total",
		"Assignment commits ignored as duplicates")
	m.commitErrors = m.counter("assignment_commit_errors_total",
		"Assignment commits that failed to apply")
	m.commitQueueDepth = m.gauge("assignment_queue_depth",
		"Assignment commits waiting for the ledger writer")
	m.ledgerVersion = m.gauge("ledger_version",
		"Current hours ledger snapshot version")
	m.notifications = m.counterVec("notifications_total",
		"Member notifications by outcome", "outcome")

	m.httpRequests = promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "requests_total",
		Help: "Total HTTP requests by route, method and status", ConstLabels: m.constLabels,
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help: "HTTP request duration", Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, []string{"route", "method", "status"})
	m.httpRateLimited = promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", Name: "rate_limited_total",
		Help: "Requests rejected by the rate limiter", ConstLabels: m.constLabels,
	})
}

// RecordRecommendation counts a finished recommendation and observes its latency.
func RecordRecommendation(status string, seconds float64) {
	globalManager.recommendations.WithLabelValues(status).Inc()
	globalManager.recommendLatency.Observe(seconds)
}

// RecordCandidates records how many candidates were scored and how many stayed eligible.
func RecordCandidates(scored, eligible int) {
	globalManager.candidatesScored.Add(float64(scored))
	globalManager.candidatesEligible.Observe(float64(eligible))
}

// RecordTeamsReturned observes the number of teams in a response.
func RecordTeamsReturned(n int) { globalManager.teamsReturned.Observe(float64(n)) }

// RecordShortfall counts a shortfall result.
func RecordShortfall() { globalManager.shortfalls.Inc() }

// RecordEnumeration counts a team generation run and the teams it scored.
func RecordEnumeration(strategy string, evaluated int) {
	globalManager.enumerations.WithLabelValues(strategy).Inc()
	globalManager.teamsEvaluated.Observe(float64(evaluated))
}

// RecordUnresolvedLocation counts a request without a target village.
func RecordUnresolvedLocation() { globalManager.unresolvedLocations.Inc() }

// RecordMissingDistance counts distance lookups that degraded to the neutral factor.
func RecordMissingDistance(n int) { globalManager.missingDistances.Add(float64(n)) }

// RecordSeverity counts a severity assessment.
func RecordSeverity(level, source string) {
	globalManager.severityDetections.WithLabelValues(level, source).Inc()
}

// RecordArtifactSwap counts a published artifact and stamps its publication time.
func RecordArtifactSwap(unix int64) {
	globalManager.artifactSwaps.Inc()
	globalManager.artifactLoadedUnix.Set(float64(unix))
}

// RecordArtifactReloadError counts a failed reload.
func RecordArtifactReloadError() { globalManager.artifactReloadErrors.Inc() }

// RecordTrainingRun counts a training run; AUC and pair count are only updated on success.
func RecordTrainingRun(outcome string, seconds, auc float64, pairs int) {
	globalManager.trainingRuns.WithLabelValues(outcome).Inc()
	globalManager.trainingDuration.Observe(seconds)
	if outcome == "success" {
		globalManager.trainingAUC.Set(auc)
		globalManager.trainingPairs.Set(float64(pairs))
	}
}

// RecordCommit counts an applied assignment and publishes the new ledger version.
func RecordCommit(version uint64) {
	globalManager.commits.Inc()
	globalManager.ledgerVersion.Set(float64(version))
}

// RecordCommitDuplicate counts an ignored duplicate commit.
func RecordCommitDuplicate() { globalManager.commitDuplicates.Inc() }

// RecordCommitError counts a commit that failed to apply.
func RecordCommitError() { globalManager.commitErrors.Inc() }

// UpdateCommitQueueDepth sets the pending commit count.
func UpdateCommitQueueDepth(depth int) { globalManager.commitQueueDepth.Set(float64(depth)) }

// RecordNotification counts a member notification by outcome.
func RecordNotification(outcome string) {
	globalManager.notifications.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func RecordHTTPRequest(route, method, status string, seconds float64) {
	globalManager.httpRequests.WithLabelValues(route, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited() { globalManager.httpRateLimited.Inc() }

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
