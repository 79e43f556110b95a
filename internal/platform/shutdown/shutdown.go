package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ForceExitCode is used when a second signal arrives while draining.
const ForceExitCode = 130

var exit = os.Exit

// NotifyContext is cancelled on the first SIGINT or SIGTERM. A second signal
// exits the process immediately, so a stuck drain can always be interrupted.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go watch(sigs, done, cancel)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}

func watch(sigs <-chan os.Signal, done <-chan struct{}, cancel context.CancelFunc) {
	select {
	case <-sigs:
		cancel()
	case <-done:
		return
	}
	select {
	case <-sigs:
		exit(ForceExitCode)
	case <-done:
	}
}
