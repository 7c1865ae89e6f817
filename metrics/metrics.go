package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	turnLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_turn_latency_ms",
		Help:    "End-to-end latency of a conversational turn in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
	})

	llmLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_llm_latency_ms",
		Help:    "Latency of LLM calls in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
	}, []string{"purpose"})

	retrieverLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_retriever_latency_ms",
		Help:    "Latency of retriever calls in milliseconds",
		Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 300, 500, 800, 1200},
	}, []string{"type"})

	retrieverResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_retriever_results",
		Help:    "Number of passages returned by a retriever",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"type"})

	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_cache_total",
		Help: "Cache lookups by layer and outcome",
	}, []string{"layer", "outcome"})

	suggestionCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_suggestions_per_turn",
		Help:    "Suggested questions extracted per turn",
		Buckets: []float64{0, 1, 2, 3, 4},
	})

	resolverFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assistant_resolver_failures_total",
		Help: "Document URL resolutions that failed",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(turnLatency, llmLatency, retrieverLatency, retrieverResults, cacheHits, suggestionCount, resolverFailures)
	})
}

// ObserveTurn records the end-to-end latency of one turn.
func ObserveTurn(start time.Time) {
	ensureRegistered()
	turnLatency.Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveLLM records latency of one LLM call by purpose
// ("reformulate" or "answer").
func ObserveLLM(purpose string, start time.Time) {
	ensureRegistered()
	llmLatency.WithLabelValues(purpose).Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveRetriever records latency and result size for a retriever type.
func ObserveRetriever(typ string, start time.Time, results int) {
	ensureRegistered()
	dur := time.Since(start).Milliseconds()
	retrieverLatency.WithLabelValues(typ).Observe(float64(dur))
	retrieverResults.WithLabelValues(typ).Observe(float64(results))
}

// IncCache records a cache lookup outcome ("hit" or "miss") for a layer.
func IncCache(layer, outcome string) {
	ensureRegistered()
	cacheHits.WithLabelValues(layer, outcome).Inc()
}

// ObserveSuggestions records how many suggestions a turn produced.
func ObserveSuggestions(n int) {
	ensureRegistered()
	suggestionCount.Observe(float64(n))
}

// IncResolverFailure counts a failed document URL resolution.
func IncResolverFailure() {
	ensureRegistered()
	resolverFailures.Inc()
}

// Handler serves the default registry. Collectors are registered first
// so a scrape before the first turn still sees every series.
func Handler() http.Handler {
	ensureRegistered()
	return promhttp.Handler()
}

// Collectors exposes all collectors for external registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		turnLatency, llmLatency, retrieverLatency, retrieverResults, cacheHits, suggestionCount, resolverFailures,
	}
}
