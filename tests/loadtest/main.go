package main

import (
	"bytes"
	"flag"
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Exercises only the endpoints that never shell out to the device, so it is
// safe to point at a real board: reads, settings saves and the health check.

const (
	numWorkers   = 8
	testDuration = 10 * time.Second
)

var timezones = []string{"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "UTC"}

var baseURL string

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	// /save/* answers with a redirect to the panel; the 302 is the result.
	CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	},
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.StringVar(&baseURL, "url", "http://127.0.0.1:3000", "panel base URL")
	flag.Parse()

	fmt.Println("=== Dashboard Config Panel Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s\n\n", baseURL, numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			drain(resp)
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	original, err := fetchConfig()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}

	fmt.Println("\n--- Phase 1: Reads (GET /api/config, GET /health) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.8 {
			return doGetConfig()
		}
		return doGetHealth()
	})

	fmt.Println("\n--- Phase 2: Mixed load (20% saves, 80% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doSaveDisplay(rng)
		case r < 0.20:
			return doSaveAutoUpdate(rng)
		case r < 0.90:
			return doGetConfig()
		default:
			return doGetHealth()
		}
	})

	fmt.Print("\nRestoring display and system settings... ")
	if err := restore(original); err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}
	fmt.Println("OK")
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 1000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	fmt.Println("  " + strings.Repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func timed(endpoint string, want int, do func() (*http.Response, error)) result {
	start := time.Now()
	resp, err := do()
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	drain(resp)
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func doGetConfig() result {
	return timed("GET /api/config", http.StatusOK, func() (*http.Response, error) {
		return httpClient.Get(baseURL + "/api/config")
	})
}

func doGetHealth() result {
	return timed("GET /health", http.StatusOK, func() (*http.Response, error) {
		return httpClient.Get(baseURL + "/health")
	})
}

func doSaveDisplay(rng *rand.Rand) result {
	start := rng.Intn(12)
	form := url.Values{
		"timezone":                 {timezones[rng.Intn(len(timezones))]},
		"day_mode_start":           {strconv.Itoa(start)},
		"day_mode_end":             {strconv.Itoa(start + 12)},
		"motivational_hours_start": {strconv.Itoa(start)},
		"motivational_hours_end":   {strconv.Itoa(start + 6)},
	}
	return timed("POST /save/display", http.StatusFound, func() (*http.Response, error) {
		return httpClient.PostForm(baseURL+"/save/display", form)
	})
}

func doSaveAutoUpdate(rng *rand.Rand) result {
	data, _ := json.Marshal(map[string]bool{"enabled": rng.Intn(2) == 0})
	return timed("POST /save/auto-update", http.StatusOK, func() (*http.Response, error) {
		return httpClient.Post(baseURL+"/save/auto-update", "application/json", bytes.NewReader(data))
	})
}

func fetchConfig() (map[string]map[string]any, error) {
	resp, err := httpClient.Get(baseURL + "/api/config")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /api/config: HTTP %d", resp.StatusCode)
	}
	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any)
	for name, section := range doc {
		if m, ok := section.(map[string]any); ok {
			out[name] = m
		}
	}
	return out, nil
}

// restore posts back the display section and the auto-update flag captured
// before the run.
func restore(original map[string]map[string]any) error {
	if display, ok := original["display"]; ok {
		form := url.Values{}
		for k, v := range display {
			form.Set(k, fmt.Sprint(v))
		}
		resp, err := httpClient.PostForm(baseURL+"/save/display", form)
		if err != nil {
			return err
		}
		drain(resp)
	}
	if enabled, ok := original["system"]["auto_update"].(bool); ok {
		data, _ := json.Marshal(map[string]bool{"enabled": enabled})
		resp, err := httpClient.Post(baseURL+"/save/auto-update", "application/json", bytes.NewReader(data))
		if err != nil {
			return err
		}
		drain(resp)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
