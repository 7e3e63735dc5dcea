//go:build windows

package commands

// onRefreshSignal is a no-op where SIGUSR1 does not exist.
func onRefreshSignal(func()) func() {
	return func() {}
}
