package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/linkedin"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the profile document",
}

var profileImportCmd = &cobra.Command{
	Use:   "import <linkedin-export.txt>",
	Short: "Convert a LinkedIn profile text export into the profile document",
	Long: `Reads the text of a LinkedIn profile export (for example the output of
pdftotext on Profile.pdf) and writes the profile document the site reads.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileImport,
}

func init() {
	profileImportCmd.Flags().String("output", "", "output file (defaults to <site_dir>/<profile_path>)")
	profileCmd.AddCommand(profileImportCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = filepath.Join(cfg.SiteDir, filepath.FromSlash(cfg.ProfilePath))
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := linkedin.Read(f, time.Now())
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Profile data written to %s\n", out)
	fmt.Printf("  Name: %s\n", p.Name)
	fmt.Printf("  Headline: %s\n", p.Headline)
	fmt.Printf("  Experience entries: %d\n", len(p.Experience))
	fmt.Printf("  Education entries: %d\n", len(p.Education))
	fmt.Printf("  Skills: %d\n", len(p.Skills))
	fmt.Printf("  Experience start year: %d\n", p.ExperienceStartYear)
	return nil
}
