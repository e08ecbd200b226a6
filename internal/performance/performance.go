package performance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwaldner/coffeecarry/internal/logger"
	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// RunOperation is the operation name full engine runs are tracked under
const RunOperation = "Run"

// Valuer is anything that can produce a full valuation run
type Valuer interface {
	Run(ctx context.Context) (*valuation.Valuation, error)
}

// OperationStats counts the calls of one tracked operation
type OperationStats struct {
	Calls           int64         `json:"calls"`
	Failures        int64         `json:"failures"`
	SlowCalls       int64         `json:"slow_calls"`
	TotalDuration   time.Duration `json:"total_duration_ns"`
	AverageDuration time.Duration `json:"average_duration_ns"`
}

// Stats is a point-in-time copy of the wrapper counters.
// The top-level fields cover full engine runs only.
type Stats struct {
	TotalRuns       int64                     `json:"total_runs"`
	FailedRuns      int64                     `json:"failed_runs"`
	SlowRuns        int64                     `json:"slow_runs"`
	TotalDuration   time.Duration             `json:"total_duration_ns"`
	AverageDuration time.Duration             `json:"average_duration_ns"`
	Operations      map[string]OperationStats `json:"operations"`
}

// PerformanceWrapper records timing statistics for valuation calls
type PerformanceWrapper struct {
	mu            sync.Mutex
	slowThreshold time.Duration
	operations    map[string]*OperationStats
}

// NewPerformanceWrapper creates a wrapper counting calls slower than slowThreshold
func NewPerformanceWrapper(slowThreshold time.Duration) *PerformanceWrapper {
	return &PerformanceWrapper{
		slowThreshold: slowThreshold,
		operations:    make(map[string]*OperationStats),
	}
}

// Track times fn and records it under the given operation name
func (pw *PerformanceWrapper) Track(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	pw.recordCall(operation, duration, err)

	logger.Debug.Printf("⏱️  %s took %v", operation, duration)
	if duration > pw.slowThreshold {
		logger.Warn.Printf("⚠️  SLOW VALUATION: %s took %v", operation, duration)
	}
	return err
}

// RunEngine wraps a full engine run with performance monitoring
func (pw *PerformanceWrapper) RunEngine(ctx context.Context, v Valuer) (*valuation.Valuation, error) {
	var result *valuation.Valuation
	err := pw.Track(RunOperation, func() error {
		var runErr error
		result, runErr = v.Run(ctx)
		return runErr
	})
	return result, err
}

// recordCall updates the counters of one operation
func (pw *PerformanceWrapper) recordCall(operation string, duration time.Duration, err error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	op, ok := pw.operations[operation]
	if !ok {
		op = &OperationStats{}
		pw.operations[operation] = op
	}

	op.Calls++
	op.TotalDuration += duration
	if err != nil {
		op.Failures++
	}
	if duration > pw.slowThreshold {
		op.SlowCalls++
	}
}

// Snapshot returns the current counters
func (pw *PerformanceWrapper) Snapshot() Stats {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	s := Stats{Operations: make(map[string]OperationStats, len(pw.operations))}
	for name, op := range pw.operations {
		copied := *op
		if copied.Calls > 0 {
			copied.AverageDuration = time.Duration(int64(copied.TotalDuration) / copied.Calls)
		}
		s.Operations[name] = copied
	}

	if run, ok := s.Operations[RunOperation]; ok {
		s.TotalRuns = run.Calls
		s.FailedRuns = run.Failures
		s.SlowRuns = run.SlowCalls
		s.TotalDuration = run.TotalDuration
		s.AverageDuration = run.AverageDuration
	}
	return s
}

// GetPerformanceStats returns current performance statistics
func (pw *PerformanceWrapper) GetPerformanceStats() string {
	s := pw.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, `
📊 Valuation Performance Stats
==============================
Total Runs:        %d
Failed Runs:       %d
Average Duration:  %v
Total Time:        %v
Slow Runs:         %d (>%v)
Slow Run %%:        %.1f%%
`,
		s.TotalRuns,
		s.FailedRuns,
		s.AverageDuration,
		s.TotalDuration,
		s.SlowRuns,
		pw.slowThreshold,
		float64(s.SlowRuns)/float64(max(s.TotalRuns, 1))*100,
	)

	names := make([]string, 0, len(s.Operations))
	for name := range s.Operations {
		if name != RunOperation {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		op := s.Operations[name]
		fmt.Fprintf(&b, "%-18s %d calls, %d failed, avg %v\n", name+":", op.Calls, op.Failures, op.AverageDuration)
	}
	return b.String()
}

// Close logs the final performance report
func (pw *PerformanceWrapper) Close() {
	if len(pw.Snapshot().Operations) > 0 {
		logger.Info.Printf("📊 Valuation Performance Report:%s", pw.GetPerformanceStats())
	}
}
