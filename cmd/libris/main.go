package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/libris/internal/library/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = application.Run(ctx, os.Args[1:])
	stop()

	if cerr := application.Close(); cerr != nil {
		log.Printf("shutdown error: %v", cerr)
	}

	code := app.ExitCode(err)
	switch code {
	case 1:
		log.Printf("command failed: %v", err)
	case 2:
		log.Print(err)
	}
	os.Exit(code)
}
