package services

import (
	"context"
	"dashcfg/internal/structures"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	entriesPath = "/api/v1/entries.json"
	statusPath  = "/api/v1/status.json"
)

// NightscoutServiceInterface talks to the glucose telemetry server on behalf
// of the kiosk page, which cannot call it directly because of CORS.
type NightscoutServiceInterface interface {
	Entries(ctx context.Context, baseURL, secret, count string) ([]byte, error)
	CheckStatus(ctx context.Context, baseURL string) error
}

type NightscoutService struct {
	client       *http.Client
	userAgent    string
	proxyTimeout time.Duration
	testTimeout  time.Duration
}

func NewNightscoutService(conf *structures.Config) NightscoutServiceInterface {
	return &NightscoutService{
		client:       &http.Client{},
		userAgent:    conf.Nightscout.UserAgent,
		proxyTimeout: conf.Nightscout.ProxyTimeout,
		testTimeout:  conf.Nightscout.TestTimeout,
	}
}

func (ns *NightscoutService) Entries(ctx context.Context, baseURL, secret, count string) ([]byte, error) {
	if count == "" {
		count = "1"
	}
	target := strings.TrimRight(baseURL, "/") + entriesPath + "?count=" + url.QueryEscape(count)

	ctx, cancel := context.WithTimeout(ctx, ns.proxyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build entries request: %w", err)
	}
	req.Header.Set("api-secret", secret)
	req.Header.Set("User-Agent", ns.userAgent)

	resp, err := ns.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return body, nil
}

func (ns *NightscoutService) CheckStatus(ctx context.Context, baseURL string) error {
	target := strings.TrimRight(baseURL, "/") + statusPath

	ctx, cancel := context.WithTimeout(ctx, ns.testTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("User-Agent", ns.userAgent)

	resp, err := ns.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}
