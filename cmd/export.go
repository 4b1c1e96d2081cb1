package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/progress"
	"github.com/ziadkadry99/folio/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the site with every page pre-populated",
	Long: `Copies the site directory into the output directory, replacing each page
matched by the configured patterns with its populated HTML. The data loader
script is kept, so pages still refresh themselves in the browser.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	exportCmd.Flags().StringSlice("pages", nil, "override page patterns (defaults to pages)")
	exportCmd.Flags().Int("concurrency", 4, "pages rendered at once")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	pages, _ := cmd.Flags().GetStringSlice("pages")
	if len(pages) == 0 {
		pages = cfg.Pages
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	ld, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := &site.Exporter{
		SiteDir:     cfg.SiteDir,
		OutputDir:   outputDir,
		Pages:       pages,
		Exclude:     cfg.Exclude,
		ProbeWait:   cfg.ProbeWait,
		Concurrency: concurrency,
		Loader:      ld,
		Logger:      logger,
		Progress:    progress.NewReporter(),
	}
	report, err := exporter.Export(ctx)
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}

	fmt.Printf("Site exported: %s (%d pages, %d assets)\n", outputDir, report.Pages, report.Assets)
	for _, p := range report.Degraded {
		fmt.Printf("  %s kept fallback content (see log)\n", p)
	}
	return nil
}
