package recon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soclabs/lookout/internal/engine"
)

const (
	geoBaseURL = "http://ip-api.com/json/%s"
	geoTimeout = 5 * time.Second
	geoMaxBody = 1 * 1024 * 1024 // 1MB
)

// geoRetryDelay is a var so tests can shorten the backoff.
var geoRetryDelay = 2 * time.Second

// geoResponse mirrors the ip-api.com JSON payload.
type geoResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Query      string  `json:"query"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	ISP        string  `json:"isp"`
	Org        string  `json:"org"`
}

// GeoLocate queries ip-api.com for geolocation data about an IP.
// API-level failures (private ranges, reserved addresses) come back as
// errors carrying the service's message.
func GeoLocate(ctx context.Context, ip, userAgent string) (*engine.GeoInfo, error) {
	url := fmt.Sprintf(geoBaseURL, ip)

	body, err := geoFetch(ctx, url, userAgent)
	if err != nil {
		return nil, fmt.Errorf("geolocation fetch for %s: %w", ip, err)
	}

	return parseGeoResponse(body)
}

// parseGeoResponse decodes the API payload and checks its status field.
func parseGeoResponse(body []byte) (*engine.GeoInfo, error) {
	var resp geoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("geolocation JSON parse: %w", err)
	}

	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "unknown failure"
		}
		return nil, fmt.Errorf("geolocation lookup failed: %s", msg)
	}

	return &engine.GeoInfo{
		IP:      resp.Query,
		Country: resp.Country,
		Region:  resp.RegionName,
		City:    resp.City,
		Lat:     resp.Lat,
		Lon:     resp.Lon,
		ISP:     resp.ISP,
		Org:     resp.Org,
	}, nil
}

func geoFetch(ctx context.Context, url, userAgent string) ([]byte, error) {
	body, err := geoDoRequest(ctx, url, userAgent)
	if err == nil {
		return body, nil
	}

	// Rate limits are not worth a retry.
	if strings.Contains(err.Error(), "429") {
		return nil, err
	}

	// Retry once after delay for server errors.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(geoRetryDelay):
	}

	return geoDoRequest(ctx, url, userAgent)
}

func geoDoRequest(ctx context.Context, url, userAgent string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, geoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("ip-api.com rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, geoMaxBody))
	if err != nil {
		return nil, fmt.Errorf("ip-api.com read body: %w", err)
	}

	return body, nil
}
