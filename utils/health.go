package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest dependency check, served on /health.
type HealthStatus struct {
	Healthy    bool            `json:"healthy"`
	Components map[string]bool `json:"components"`
	CheckedAt  time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings Mongo and each named Redis client once a
// minute, starting immediately so /health is meaningful at boot.
func StartHealthMonitor(mongoClient *mongo.Client, redisClients map[string]*redis.Client) {
	check := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		components := make(map[string]bool, len(redisClients)+1)
		components["mongo"] = mongoClient.Ping(ctx, nil) == nil
		for name, client := range redisClients {
			components[name] = client.Ping(ctx).Err() == nil
		}

		healthy := true
		for _, up := range components {
			healthy = healthy && up
		}

		healthMu.Lock()
		currentHealth = HealthStatus{
			Healthy:    healthy,
			Components: components,
			CheckedAt:  time.Now(),
		}
		healthMu.Unlock()
	}

	go func() {
		check()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			check()
		}
	}()
}
