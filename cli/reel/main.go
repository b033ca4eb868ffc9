// Command reel runs the streaming event proxy and its companion tools.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	reelcmder "github.com/papercomputeco/reel/cmd/reel"
)

func main() {
	// "reel replay -" reading a piped stream stops decoding on Ctrl-C and
	// still prints the terminal finish event.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := reelcmder.NewReelCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
