package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/authoring"
)

var blogCmd = &cobra.Command{
	Use:   "blog",
	Short: "Manage the blog document",
}

var blogCompileCmd = &cobra.Command{
	Use:   "compile <posts-dir>",
	Short: "Compile Markdown posts into the blog document",
	Long: `Reads Markdown posts with front matter (id, title, date, category,
excerpt, image, tags) and writes them, most recent first, as the blog
document the site reads.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlogCompile,
}

func init() {
	blogCompileCmd.Flags().String("output", "", "output file (defaults to <site_dir>/<blog_path>)")
	blogCompileCmd.Flags().String("pattern", authoring.DefaultPattern, "doublestar pattern selecting posts")
	blogCmd.AddCommand(blogCompileCmd)
	rootCmd.AddCommand(blogCmd)
}

func runBlogCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = filepath.Join(cfg.SiteDir, filepath.FromSlash(cfg.BlogPath))
	}
	pattern, _ := cmd.Flags().GetString("pattern")

	posts, err := authoring.NewCompiler(logger).CompileDir(args[0], pattern)
	if err != nil {
		return err
	}
	if err := authoring.WriteFile(out, posts); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Compiled %d posts into %s\n", len(posts), out)
	return nil
}
