package main

// Parse every resume in a folder and print the outcomes as JSON:
//   go run ./cmd/scan -folder ./resumes

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resume-scanner/internal/bootstrap"
	"resume-scanner/internal/shared/config"
)

func main() {
	cfg := config.Load()
	folder := flag.String("folder", cfg.ResumeFolder, "folder of resume files to parse")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	outcomes, err := app.Parser.ParseFolder(ctx, *folder)
	if err != nil {
		log.Fatalf("scan error: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		log.Fatalf("encode error: %v", err)
	}
}
