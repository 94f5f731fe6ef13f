package main

import (
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentBulkScoring(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping load test in short mode")
	}
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RateLimit.BulkPerMinute = 100000
	_, h := newTestApp(t, cfg)
	ct, body := multipartFile(t, "leads.csv", bulkCSV)

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	failures := make(chan int, workers*perWorker)
	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w := do(h, postMultipart("/api/score/bulk", ct, body))
				if w.Code != http.StatusOK {
					failures <- w.Code
				}
			}
		}()
	}
	wg.Wait()
	close(failures)

	var codes []int
	for c := range failures {
		codes = append(codes, c)
	}
	assert.Empty(t, codes)
	t.Logf("%d bulk requests in %v", workers*perWorker, time.Since(start))
}

func BenchmarkScore(b *testing.B) {
	_, h := newTestApp(b, testConfig("http://127.0.0.1:1"))
	body := `{"location_score":85,"how_you_know_us_score":70,"sibling_in_school_score":100}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		do(h, postJSON("/api/score", body))
	}
}

func BenchmarkBulk(b *testing.B) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RateLimit.BulkPerMinute = 1 << 30
	_, h := newTestApp(b, cfg)

	var sb strings.Builder
	sb.WriteString(strings.SplitN(bulkCSV, "\n", 2)[0] + "\n")
	for i := 0; i < 500; i++ {
		sb.WriteString("Row,50,60,0,45,70,65,0,60\n")
	}
	ct, body := multipartFile(b, "leads.csv", sb.String())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		do(h, postMultipart("/api/score/bulk", ct, body))
	}
}
