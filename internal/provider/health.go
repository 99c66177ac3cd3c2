package provider

import "sync"

// EWMA smoothing keeps scores responsive without flapping on a single
// failed call.
const healthAlpha = 0.1

type healthTracker struct {
	mu     sync.RWMutex
	scores map[string]float64
}

var health = &healthTracker{scores: make(map[string]float64)}

func recordResult(providerID string, success bool) {
	value := 0.0
	if success {
		value = 100.0
	}
	health.mu.Lock()
	defer health.mu.Unlock()
	current, ok := health.scores[providerID]
	if !ok {
		current = value
	}
	health.scores[providerID] = healthAlpha*value + (1-healthAlpha)*current
}

// HealthScores returns a snapshot of per-provider success scores
// (0-100). Providers never called do not appear.
func HealthScores() map[string]float64 {
	health.mu.RLock()
	defer health.mu.RUnlock()
	out := make(map[string]float64, len(health.scores))
	for k, v := range health.scores {
		out[k] = v
	}
	return out
}
