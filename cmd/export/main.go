package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Gunvolt24/bol_export/config"
	"github.com/Gunvolt24/bol_export/internal/app"
	"github.com/Gunvolt24/bol_export/pkg/ctxmeta"
)

// CLI-приложение экспорта заказов bol.com в дневной xlsx.
func main() {
	dryRun := flag.Bool("dry-run", false, "fetch and dedupe but write nothing")
	exportDate := flag.String("date", "", "override export date (YYYY-MM-DD); empty means today")
	verbose := flag.Bool("verbose", false, "log debug-level messages to the console")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	if *exportDate != "" {
		if _, err := time.Parse("2006-01-02", *exportDate); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date %q: expected YYYY-MM-DD\n", *exportDate)
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *verbose {
		cfg.Logger.Verbose = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// run_id сквозной: попадает в каждую строку лога этого прогона.
	ctx = ctxmeta.WithRunID(ctx, uuid.NewString())

	application, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	res, err := application.Export.Run(ctx, *dryRun, *exportDate)
	if err != nil {
		application.Logger.Errorf(ctx, "export failed: %v", err)
		os.Exit(1)
	}

	if res.DryRun {
		fmt.Printf("dry run %s: %d orders listed, %d new items, %d duplicates, %d orders skipped\n",
			res.ExportDate, res.OrdersListed, res.ItemsNew, res.ItemsSkipped, res.OrdersSkipped)
		return
	}
	fmt.Printf("export %s: %d orders listed, %d new items, %d duplicates, %d orders skipped -> %s\n",
		res.ExportDate, res.OrdersListed, res.ItemsNew, res.ItemsSkipped, res.OrdersSkipped, res.ExportPath)
}
