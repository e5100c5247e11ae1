package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mini-maxit/tester/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
