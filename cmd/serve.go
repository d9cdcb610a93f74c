package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codekitchen-community/pages/internal/browser"
	"github.com/codekitchen-community/pages/internal/db"
	"github.com/codekitchen-community/pages/internal/server"
	"github.com/codekitchen-community/pages/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the live preview server",
	Long: `Serves every page folder, rendered on each request with the visitor's
saved language and theme. Browsers reload automatically when a page or
template changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().String("host", "", "host to bind (overrides config)")
	serveCmd.Flags().Bool("no-reload", false, "disable live reload")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
		cfg.Server.LiveReload = false
	}

	logger := slog.Default()

	database, err := db.Open(cfg.PreferencesDB())
	if err != nil {
		return fmt.Errorf("opening preference store: %w", err)
	}
	defer database.Close()
	if n, err := prunePreferences(database, cfg.Server.PreferenceDays, time.Now()); err != nil {
		logger.Warn("pruning stale preferences", "error", err)
	} else if n > 0 {
		logger.Info("pruned stale preferences", "rows", n, "older_than_days", cfg.Server.PreferenceDays)
	}

	gen := site.New(cfg, logger)
	if !gen.Runtime.Available() {
		fmt.Println("Note: browser runtime not built; page controls will not respond. Run: go generate ./internal/browser")
	}
	srv := server.New(server.Config{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		Namespace:  cfg.Preferences.Namespace,
		AllowAll:   cfg.Server.AllowAll,
		LiveReload: cfg.Server.LiveReload,
	}, gen, database, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if hub := srv.Hub(); hub != nil {
		watcher, err := server.NewWatcher(server.WatcherOptions{
			Roots:  []string{cfg.Root, cfg.TemplatesPath()},
			Ignore: append([]string{cfg.OutputFile}, browser.Files...),
			OnChange: func() {
				logger.Info("change detected; reloading browsers", "clients", hub.Clients())
				hub.Broadcast(strconv.FormatInt(time.Now().UnixNano(), 10))
			},
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	url := fmt.Sprintf("http://%s", srv.Addr())
	fmt.Println("Starting live preview server...")
	fmt.Println("Available endpoints:")
	fmt.Printf("  %s/ - Redirect to first page\n", url)
	fmt.Printf("  %s/pages - List all pages\n", url)
	fmt.Printf("  %s/<page_name> - View specific page\n", url)
	fmt.Println("Press Ctrl+C to stop.")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	return <-errCh
}

// prunePreferences drops preference rows not written in the last days days.
// Zero keeps everything.
func prunePreferences(database *db.DB, days int, now time.Time) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	return database.PrunePreferences(now.AddDate(0, 0, -days))
}
