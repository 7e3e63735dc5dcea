//go:build !windows

package commands

import (
	"os"
	"os/signal"
	"syscall"
)

// onRefreshSignal calls fn on every SIGUSR1 until the returned func is called.
func onRefreshSignal(fn func()) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
