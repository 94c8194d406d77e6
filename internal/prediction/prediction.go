// Package prediction fetches gravity forecasts for fermenting batches
// from the external prediction service, with a short-lived cache so chart
// polling does not hammer it.
package prediction

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const cacheTTL = 5 * time.Minute

// Result is the prediction service's answer for one batch. Available is
// false (with Reason set) while the service has too few readings to fit.
type Result struct {
	Available           bool     `json:"available"`
	PredictedOG         *float64 `json:"predicted_og,omitempty"`
	PredictedFG         *float64 `json:"predicted_fg,omitempty"`
	EstimatedCompletion *string  `json:"estimated_completion,omitempty"`
	RSquared            *float64 `json:"r_squared,omitempty"`
	NumReadings         int      `json:"num_readings"`
	ModelType           string   `json:"model_type"`
	Reason              string   `json:"reason,omitempty"`
}

type cacheKey struct {
	batchID   int64
	modelType string
}

type cacheEntry struct {
	result    Result
	fetchedAt time.Time
}

// Service is a caching client for the prediction API. A zero base URL
// leaves the service unconfigured; callers get a not-available Result
// rather than an error.
type Service struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// NewService creates a prediction client for the given base URL, which
// may be empty when no prediction backend is deployed.
func NewService(baseURL string) *Service {
	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   make(map[cacheKey]cacheEntry),
	}
}

// Configured reports whether a prediction backend is set up.
func (s *Service) Configured() bool {
	return s.baseURL != ""
}

// ForBatch returns the prediction for a batch, served from cache while
// fresh. On a fetch error a stale cached result is returned instead of
// failing, matching best-effort display semantics.
func (s *Service) ForBatch(batchID int64, modelType string) (Result, error) {
	if !s.Configured() {
		return Result{Available: false, Reason: "prediction service not configured"}, nil
	}

	key := cacheKey{batchID: batchID, modelType: modelType}

	s.mu.Lock()
	entry, ok := s.cache[key]
	s.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < cacheTTL {
		return entry.result, nil
	}

	result, err := s.fetch(batchID, modelType)
	if err != nil {
		if ok {
			return entry.result, nil
		}
		return Result{}, err
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{result: result, fetchedAt: time.Now()}
	s.mu.Unlock()
	return result, nil
}

// Reload bypasses the cache, forcing a fresh fit.
func (s *Service) Reload(batchID int64, modelType string) (Result, error) {
	if !s.Configured() {
		return Result{Available: false, Reason: "prediction service not configured"}, nil
	}
	result, err := s.fetch(batchID, modelType)
	if err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	s.cache[cacheKey{batchID: batchID, modelType: modelType}] = cacheEntry{result: result, fetchedAt: time.Now()}
	s.mu.Unlock()
	return result, nil
}

func (s *Service) fetch(batchID int64, modelType string) (Result, error) {
	url := fmt.Sprintf("%s/batches/%d/prediction", s.baseURL, batchID)
	if modelType != "" {
		url += "?model=" + modelType
	}

	resp, err := s.client.Get(url)
	if err != nil {
		return Result{}, fmt.Errorf("prediction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("prediction service returned %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode prediction: %w", err)
	}
	return result, nil
}
