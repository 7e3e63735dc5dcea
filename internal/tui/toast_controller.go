package tui

import (
	"time"

	"github.com/colonyops/thingsbar/internal/core/notify"
)

const (
	defaultToastTTL   = 5 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
	maxToastWidth     = 40
)

type toast struct {
	notification notify.Notification
	expiresAt    time.Time
}

// ToastController tracks the panel's active toasts. Expiry is absolute: a
// toast lives until CreatedAt+ttl regardless of how often Expire runs.
type ToastController struct {
	toasts  []toast
	ttl     time.Duration
	ticking bool
}

// NewToastController returns a controller whose toasts live for ttl.
// A non-positive ttl uses defaultToastTTL.
func NewToastController(ttl time.Duration) *ToastController {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	return &ToastController{ttl: ttl}
}

// Push adds n to the stack. Pushing the same level and message as the newest
// toast extends that toast instead of stacking a duplicate, so repeated
// "Refreshed" notices collapse into one.
func (c *ToastController) Push(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	expires := n.CreatedAt.Add(c.ttl)

	if last := len(c.toasts) - 1; last >= 0 {
		prev := c.toasts[last].notification
		if prev.Level == n.Level && prev.Message == n.Message {
			c.toasts[last] = toast{notification: n, expiresAt: expires}
			return
		}
	}

	c.toasts = append(c.toasts, toast{notification: n, expiresAt: expires})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Expire drops every toast whose deadline is at or before now.
func (c *ToastController) Expire(now time.Time) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.expiresAt) {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest (bottom-most) toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// DismissAll removes all active toasts.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current active toast slice.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
