package infrastructure

import (
	"context"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"invoice30sec.app/internal/ports"
)

// DatabaseHealthChecker implements database health checking
type DatabaseHealthChecker struct {
	db *gorm.DB
}

// NewDatabaseHealthChecker creates a new database health checker
func NewDatabaseHealthChecker(db *gorm.DB) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{db: db}
}

// Check verifies database connectivity
func (d *DatabaseHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "database",
		Details:   make(map[string]interface{}),
	}

	if d.db == nil {
		status.Status = ports.StatusUnhealthy
		status.Error = "database is not configured"
		return status
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		status.Status = ports.StatusUnhealthy
		status.Error = "failed to get underlying database connection"
		return status
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		status.Status = ports.StatusUnhealthy
		status.Error = err.Error()
		return status
	}

	stats := sqlDB.Stats()
	status.Status = ports.StatusHealthy
	status.Details["connected"] = true
	status.Details["open_connections"] = stats.OpenConnections
	status.Details["in_use"] = stats.InUse
	return status
}

// RedisHealthChecker implements redis health checking
type RedisHealthChecker struct {
	client *redis.Client
}

// NewRedisHealthChecker creates a new redis health checker
func NewRedisHealthChecker(client *redis.Client) *RedisHealthChecker {
	return &RedisHealthChecker{client: client}
}

// Check pings redis
func (r *RedisHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "redis",
		Details:   make(map[string]interface{}),
	}

	if r.client == nil {
		status.Status = ports.StatusUnhealthy
		status.Error = "redis is not configured"
		return status
	}

	if err := r.client.Ping(ctx).Err(); err != nil {
		status.Status = ports.StatusUnhealthy
		status.Error = err.Error()
		return status
	}

	poolStats := r.client.PoolStats()
	status.Status = ports.StatusHealthy
	status.Details["connected"] = true
	status.Details["total_conns"] = poolStats.TotalConns
	return status
}
