// pagecraft is a command-line tool for working with block-based page
// documents: rendering, validating, applying templates, and publishing
// them into a pagecraft store.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eringen/pagecraft"
	"github.com/eringen/pagecraft/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	verbose bool
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{log: logrus.New()}

	root := &cobra.Command{
		Use:   "pagecraft",
		Short: "Block-based page content engine",
		Long: `pagecraft builds, validates and renders pages made of typed content blocks.

Page documents may be JSON, YAML or TOML; the format follows the file
extension. Store commands read PAGECRAFT_DB, PAGECRAFT_MEDIA_DIR,
PAGECRAFT_MEDIA_URL and SITE_URL from the environment or a .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log.SetOutput(cmd.ErrOrStderr())
			level, err := logrus.ParseLevel(EnvOr("LOG_LEVEL", "info"))
			if err != nil {
				level = logrus.InfoLevel
			}
			if opts.verbose {
				level = logrus.DebugLevel
			}
			opts.log.SetLevel(level)
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		renderCmd(),
		validateCmd(),
		slugCmd(),
		blockCmd(),
		templateCmd(),
		saveCmd(opts),
		publishCmd(opts),
		sitemapCmd(opts),
		feedCmd(opts),
		mediaCmd(opts),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pagecraft version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagecraft %s\n", version)
		},
	}
}

// EnvOr returns the value of the environment variable key, or fallback
// when it is unset or blank.
func EnvOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func engineConfig() pagecraft.Config {
	return pagecraft.Config{
		DatabasePath: EnvOr("PAGECRAFT_DB", "data/pagecraft.db"),
		MediaDir:     EnvOr("PAGECRAFT_MEDIA_DIR", "data/media"),
		MediaBaseURL: EnvOr("PAGECRAFT_MEDIA_URL", "/media"),
		SiteURL:      EnvOr("SITE_URL", "http://localhost:3000"),
	}
}

func siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        EnvOr("SITE_NAME", "Site"),
		URL:         EnvOr("SITE_URL", "http://localhost:3000"),
		Description: EnvOr("SITE_DESCRIPTION", ""),
	}
}

func openEngine(opts *options) (*pagecraft.Engine, error) {
	return pagecraft.New(engineConfig(), pagecraft.WithLogger(opts.log))
}
