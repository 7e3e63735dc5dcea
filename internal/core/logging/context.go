package logging

import "context"

type contextKey string

const (
	refreshGenKey contextKey = "refresh_gen"
	taskIDKey     contextKey = "task_id"
)

// WithRefreshGen adds the refresh generation that triggered the work to the context.
func WithRefreshGen(ctx context.Context, gen uint64) context.Context {
	return context.WithValue(ctx, refreshGenKey, gen)
}

// WithTaskID adds a Things task ID to the context.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey, taskID)
}

// GetRefreshGen retrieves the refresh generation from the context.
// The second return value is false when no generation is present.
func GetRefreshGen(ctx context.Context) (uint64, bool) {
	gen, ok := ctx.Value(refreshGenKey).(uint64)
	return gen, ok
}

// GetTaskID retrieves the task ID from the context.
// Returns empty string if not present.
func GetTaskID(ctx context.Context) string {
	if id, ok := ctx.Value(taskIDKey).(string); ok {
		return id
	}
	return ""
}
