//go:build unix

package sys

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

func notifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, unix.SIGWINCH, unix.SIGINT, unix.SIGTERM, unix.SIGHUP)
	return sigCh
}

func stopSignals(ch chan os.Signal) {
	signal.Stop(ch)
	close(ch)
}
