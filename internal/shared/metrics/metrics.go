package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	resumesProcessedTotal   atomic.Uint64
	reviewLLMTotal          atomic.Uint64
	reviewNoCredentialTotal atomic.Uint64
	reviewFailureTotal      atomic.Uint64
	extractEmptyTotal       atomic.Uint64
	eventPublishFailedTotal atomic.Uint64
	objectStoreFailedTotal  atomic.Uint64

	analysisDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncResumesProcessed counts a stored resume record.
func IncResumesProcessed() {
	resumesProcessedTotal.Add(1)
}

// IncReviewLLM counts a review answered by the model.
func IncReviewLLM() {
	reviewLLMTotal.Add(1)
}

// IncReviewFallback counts a fallback review. reason is "no_credential" or "failure".
func IncReviewFallback(reason string) {
	if reason == "no_credential" {
		reviewNoCredentialTotal.Add(1)
		return
	}
	reviewFailureTotal.Add(1)
}

func IncExtractEmpty() {
	extractEmptyTotal.Add(1)
}

func IncEventPublishFailed() {
	eventPublishFailedTotal.Add(1)
}

func IncObjectStoreFailed() {
	objectStoreFailedTotal.Add(1)
}

// ObserveAnalysisDurationMs records one pipeline run in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
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
	writeCounter(&buf, "resumes_processed_total", "Total resume records stored", resumesProcessedTotal.Load())
	writeCounter(&buf, "review_llm_total", "Reviews produced by the model", reviewLLMTotal.Load())
	fmt.Fprintf(&buf, "# HELP review_fallback_total Reviews produced by a fallback\n")
	fmt.Fprintf(&buf, "# TYPE review_fallback_total counter\n")
	fmt.Fprintf(&buf, "review_fallback_total{reason=\"no_credential\"} %d\n", reviewNoCredentialTotal.Load())
	fmt.Fprintf(&buf, "review_fallback_total{reason=\"failure\"} %d\n", reviewFailureTotal.Load())
	writeCounter(&buf, "extract_empty_total", "Uploads that yielded no text", extractEmptyTotal.Load())
	writeCounter(&buf, "event_publish_failed_total", "Processed events that could not be published", eventPublishFailedTotal.Load())
	writeCounter(&buf, "object_store_failed_total", "Original documents that could not be stored", objectStoreFailedTotal.Load())
	writeHistogram(&buf, "resume_analysis_duration_ms", "Resume analysis duration in milliseconds", analysisDuration.Snapshot())
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

// Observe stores value in its smallest bucket; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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
