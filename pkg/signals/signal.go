package signals

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler registers for SIGTERM and SIGINT and returns a channel
// that is closed on the first signal, letting the pipeline finish its current
// tick and stop cleanly. A second signal terminates the process immediately.
func SetupSignalHandler() <-chan struct{} {
	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 2)

	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		close(stop)

		<-sigCh
		os.Exit(1)
	}()

	return stop
}
