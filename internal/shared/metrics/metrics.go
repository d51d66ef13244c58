package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	mealPlansGeneratedTotal atomic.Uint64
	mealsUnmatchedTotal     atomic.Uint64
	cacheHitsTotal          atomic.Uint64
	cacheMissesTotal        atomic.Uint64
	catalogReloadsTotal     atomic.Uint64
	catalogReloadFailures   atomic.Uint64

	mealPlanDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncMealPlansGenerated increments the generated meal plan counter.
func IncMealPlansGenerated() {
	mealPlansGeneratedTotal.Add(1)
}

// IncMealsUnmatched increments the counter of meals left without a recipe.
func IncMealsUnmatched() {
	mealsUnmatchedTotal.Add(1)
}

// IncCacheHit increments the filtered query cache hit counter.
func IncCacheHit() {
	cacheHitsTotal.Add(1)
}

// IncCacheMiss increments the filtered query cache miss counter.
func IncCacheMiss() {
	cacheMissesTotal.Add(1)
}

// IncCatalogReload increments the successful catalog reload counter.
func IncCatalogReload() {
	catalogReloadsTotal.Add(1)
}

// IncCatalogReloadFailed increments the failed catalog reload counter.
func IncCatalogReloadFailed() {
	catalogReloadFailures.Add(1)
}

// ObserveMealPlanDurationMs records a meal plan generation duration in milliseconds.
func ObserveMealPlanDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	mealPlanDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "mealplan_generated_total", "Total meal plans generated", mealPlansGeneratedTotal.Load())
	writeCounter(&buf, "mealplan_meals_unmatched_total", "Total meals without a matching recipe", mealsUnmatchedTotal.Load())
	writeCounter(&buf, "recipes_filter_cache_hits_total", "Filtered query cache hits", cacheHitsTotal.Load())
	writeCounter(&buf, "recipes_filter_cache_misses_total", "Filtered query cache misses", cacheMissesTotal.Load())
	writeCounter(&buf, "catalog_reloads_total", "Successful catalog reloads", catalogReloadsTotal.Load())
	writeCounter(&buf, "catalog_reload_failures_total", "Failed catalog reloads", catalogReloadFailures.Load())
	writeHistogram(&buf, "mealplan_duration_ms", "Meal plan generation duration in milliseconds", mealPlanDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
