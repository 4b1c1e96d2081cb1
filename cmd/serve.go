package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/contact"
	"github.com/ziadkadry99/folio/internal/db"
	"github.com/ziadkadry99/folio/internal/livereload"
	"github.com/ziadkadry99/folio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with every page populated",
	Long: `Starts an HTTP server for the site directory. Each HTML page is populated
from the data documents on every request, the contact form is relayed and,
with --watch, open pages reload when the site or its data changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to server.port)")
	serveCmd.Flags().Bool("watch", false, "reload open pages when files change")
	serveCmd.Flags().Bool("open", false, "open the site in a browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	ld, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}

	var store *contact.Store
	if cfg.Contact.Inbox != "" {
		database, err := db.Open(cfg.Contact.Inbox)
		if err != nil {
			return fmt.Errorf("opening contact inbox: %w", err)
		}
		defer database.Close()
		store = contact.NewStore(database)
	}

	relay := contact.NewRelay(contact.Config{
		Endpoint:   cfg.Contact.Endpoint,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     logger,
		Store:      store,
	})
	opts := []server.Option{server.WithContact(relay)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watch, _ := cmd.Flags().GetBool("watch")
	if watch {
		hub := livereload.NewHub(logger)
		opts = append(opts, server.WithLiveReload(hub))

		dirs := []string{cfg.SiteDir}
		if data := cfg.DataLocation(); data != cfg.SiteDir && !isRemote(data) {
			dirs = append(dirs, data)
		}
		go func() {
			err := livereload.Watch(ctx, dirs, livereload.DefaultDebounce, func(path string) {
				n := hub.Broadcast(livereload.ReloadMessage)
				logger.Info("reloading pages", zap.String("changed", path), zap.Int("clients", n))
			}, logger)
			if err != nil {
				logger.Error("file watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := server.New(server.Config{
		Port:      cfg.Server.Port,
		SiteDir:   cfg.SiteDir,
		AllowAll:  cfg.Server.AllowAllOrigins,
		ProbeWait: cfg.ProbeWait,
	}, ld, logger, opts...)

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	abs, _ := filepath.Abs(cfg.SiteDir)
	fmt.Fprintf(os.Stderr, "folio %s serving %s at %s (Ctrl+C to stop)\n", Version, abs, url)
	if open, _ := cmd.Flags().GetBool("open"); open {
		openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
