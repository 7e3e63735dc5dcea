// Package doctor runs health checks for the Things bridge and its setup.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the outcome of a single check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// DefaultTimeout bounds each check. The Things probe shells out to the
// scripting bridge, which blocks while macOS shows an automation prompt.
const DefaultTimeout = 15 * time.Second

// CheckItem is one line within a check result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result groups the items produced by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is a named health check.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs checks concurrently, each bounded by timeout, and returns their
// results in the order given. A check that overruns its timeout reports a
// single failing item.
func RunAll(ctx context.Context, checks []Check, timeout time.Duration) []Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	results := make([]Result, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			results[i] = runOne(ctx, check, timeout)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runOne(ctx context.Context, check Check, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() { done <- check.Run(ctx) }()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		detail := "cancelled"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			detail = fmt.Sprintf("timed out after %s", timeout)
		}
		return Result{
			Name:  check.Name(),
			Items: []CheckItem{{Label: check.Name(), Status: StatusFail, Detail: detail}},
		}
	}
}

// Summary counts passed, warned and failed items across results.
func Summary(results []Result) (passed, warned, failed int) {
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}

	return passed, warned, failed
}

// CountFixable counts warn or fail items that --autofix can repair.
func CountFixable(results []Result) int {
	count := 0
	for _, r := range results {
		for _, item := range r.Items {
			if item.Fixable && item.Status != StatusPass {
				count++
			}
		}
	}
	return count
}
