package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/msto63/schedclients/pkg/subscription"
	"google.golang.org/grpc/connectivity"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checker is an interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// NamedCheckFunc wraps a check function with a name
type NamedCheckFunc struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &NamedCheckFunc{name: name, fn: fn}
}

// Name returns the checker name
func (c *NamedCheckFunc) Name() string {
	return c.name
}

// Check runs the health check
func (c *NamedCheckFunc) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry manages multiple health checkers
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	startAt  time.Time
}

// NewRegistry creates a new health check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		startAt:  time.Now(),
	}
}

// Register adds a checker to the registry
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// RegisterFunc adds a check function to the registry
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(NewChecker(name, fn))
}

// Unregister removes a checker from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Check runs all health checks concurrently and returns the overall status.
// Checks in the report are sorted by name.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, 0, len(r.checkers)),
	}

	var wg sync.WaitGroup
	results := make(chan CheckResult, len(r.checkers))

	for _, checker := range r.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			results <- result
		}(checker)
	}

	// Wait for all checks to complete
	go func() {
		wg.Wait()
		close(results)
	}()

	overallStatus := StatusHealthy
	for result := range results {
		report.Checks = append(report.Checks, result)
		switch result.Status {
		case StatusUnhealthy:
			overallStatus = StatusUnhealthy
		case StatusDegraded:
			if overallStatus != StatusUnhealthy {
				overallStatus = StatusDegraded
			}
		}
	}

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	report.Status = overallStatus
	return report
}

// CheckWithTimeout runs all health checks with a timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// String returns a string representation of the report
func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Uptime: %v, Checks: %d",
		r.Service, r.Status, r.Uptime, len(r.Checks))
}

// StatsSource is anything that reports subscription statistics, such as a
// subscription.Manager
type StatsSource interface {
	Name() string
	Stats() subscription.Stats
}

// SubscriptionCheck maps the state of a subscription to a health status
func SubscriptionCheck(src StatsSource) Checker {
	return NewChecker(src.Name(), func(ctx context.Context) CheckResult {
		stats := src.Stats()
		result := CheckResult{
			Name: src.Name(),
			Details: map[string]interface{}{
				"state":    stats.State.String(),
				"attempts": stats.Attempts,
				"messages": stats.Messages,
				"failures": stats.Failures,
			},
		}
		if !stats.LastMessageAt.IsZero() {
			result.Details["last_message_at"] = stats.LastMessageAt
		}

		switch stats.State {
		case subscription.StateStreaming:
			result.Status = StatusHealthy
			result.Message = "streaming"
		case subscription.StateSubscribing:
			result.Status = StatusDegraded
			if stats.LastError != "" {
				result.Message = fmt.Sprintf("reconnecting after %d failures: %s", stats.Failures, stats.LastError)
			} else {
				result.Message = "connecting"
			}
		case subscription.StateCancelled:
			result.Status = StatusUnhealthy
			result.Message = "subscription cancelled"
		default:
			result.Status = StatusUnknown
			result.Message = "not subscribed"
		}
		return result
	})
}

// ConnectionCheck reports the connectivity state of a gRPC connection
func ConnectionCheck(name, target string, state func() connectivity.State) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		s := state()
		result := CheckResult{
			Name:    name,
			Message: s.String(),
			Details: map[string]interface{}{"target": target},
		}

		switch s {
		case connectivity.Ready, connectivity.Idle:
			result.Status = StatusHealthy
		case connectivity.Connecting, connectivity.TransientFailure:
			result.Status = StatusDegraded
		default:
			result.Status = StatusUnhealthy
		}
		return result
	})
}
