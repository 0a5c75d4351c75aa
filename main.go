// sockdemo - resolve, connect or listen, exchange one message, close.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sockdemo/cmd"
	ncerr "sockdemo/internal/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx, os.Args[1:])
	cancel()

	code := ncerr.ExitCode(err)
	if code != 0 {
		fmt.Fprintf(os.Stderr, "sockdemo: %v\n", err)
	}
	os.Exit(code)
}
