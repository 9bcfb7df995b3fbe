package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"gorm.io/gorm"

	"order-desk/config"
	"order-desk/database"
	"order-desk/events"
	"order-desk/handlers"
	"order-desk/reports"
	"order-desk/store"
	"order-desk/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "serve":
		err = serve()
	case "report":
		err = report(args, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q, expected serve or report", command)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, db, nil
}

func serve() error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := store.EnsureAdmin(ctx, db, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Printf("Created admin account %s", cfg.Admin.Email)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	tokens, err := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publisher = rabbit
		log.Printf("Publishing order events to exchange %s", cfg.RabbitMQ.Exchange)
	}

	h := handlers.New(db, cfg, tokens, publisher, nil)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on port %s (%s)", cfg.Port, cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("run server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// report prints the order summary for a date range as tables.
func report(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	start := fs.String("start", "", "first day to include (YYYY-MM-DD)")
	end := fs.String("end", "", "last day to include (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dateRange, err := reports.ParseRange(*start, *end)
	if err != nil {
		return err
	}

	_, db, err := setup()
	if err != nil {
		return err
	}

	orders, err := reports.Load(context.Background(), db, dateRange)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	return renderSummary(out, reports.Summarize(orders))
}

func renderSummary(out io.Writer, summary reports.Summary) error {
	totals := tablewriter.NewWriter(out)
	totals.Header("Group", "Orders", "Income", "Received", "Pending")
	rows := [][]string{
		aggregateRow("All", summary.Aggregates),
		aggregateRow("Delivered", summary.ByDelivery.Delivered),
		aggregateRow("Not delivered", summary.ByDelivery.NotDelivered),
	}
	for _, row := range rows {
		if err := totals.Append(row); err != nil {
			return err
		}
	}
	if err := totals.Render(); err != nil {
		return err
	}

	if len(summary.Monthly) == 0 {
		return nil
	}

	monthly := tablewriter.NewWriter(out)
	monthly.Header("Month", "Orders", "Income", "Received", "Pending")
	for _, m := range summary.Monthly {
		label := fmt.Sprintf("%04d-%02d", m.Year, m.Month)
		if err := monthly.Append(aggregateRow(label, m.Aggregates)); err != nil {
			return err
		}
	}
	return monthly.Render()
}

func aggregateRow(label string, a reports.Aggregates) []string {
	return []string{
		label,
		strconv.Itoa(a.TotalOrdersCount),
		a.TotalIncome.String(),
		a.TotalReceivedMoney.String(),
		a.TotalPendingMoney.String(),
	}
}
