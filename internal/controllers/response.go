package controllers

import (
	"context"
	"dashcfg/internal/providers"
	json "github.com/goccy/go-json"
	"net/http"
	"net/url"
)

const (
	cacheKeyNetworks = "wifi:networks"
	cacheKeyUpdates  = "git:updates"

	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// redirectWithFlash sends the browser back to the panel with a one-shot message.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, message, kind string) {
	q := url.Values{}
	q.Set("message", message)
	q.Set("type", kind)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusFound)
}

// cachedOrCompute returns the cached value under key, or computes and caches
// it. A result computed after ctx expired is a timeout fallback and is not cached.
func cachedOrCompute[T any](ctx context.Context, cache providers.CacheProviderInterface, key string, compute func() T) T {
	if data, ok := cache.Get(key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v
		}
	}

	v := compute()
	if ctx.Err() != nil {
		return v
	}
	if gson, err := json.Marshal(v); err == nil {
		cache.Set(key, gson)
	}
	return v
}
