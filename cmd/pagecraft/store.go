package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/pagecraft"
)

func saveCmd(opts *options) *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "save <page-file>...",
		Short: "Store page documents",
		Long: `Store page documents in the database. Pages keep their ids; a slug
already used by another page of the tenant gets a numeric suffix.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			for _, path := range args {
				p, err := readPage(path)
				if err != nil {
					return err
				}
				if p.ID == "" {
					p.ID = e.Factory().NextID()
				}
				if err := e.SavePage(p); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if publish {
					if p, err = e.PublishPage(p.ID); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Status, p.Slug)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&publish, "publish", "p", false, "Publish each page after storing it")
	return cmd
}

func publishCmd(opts *options) *cobra.Command {
	var archive bool
	cmd := &cobra.Command{
		Use:   "publish <page-id>",
		Short: "Publish (or archive) a stored page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			var p *pagecraft.Page
			if archive {
				p, err = e.ArchivePage(args[0])
			} else {
				p, err = e.PublishPage(args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Status, p.Slug)
			return nil
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "Archive instead of publishing")
	return cmd
}

func sitemapCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap <tenant>",
		Short: "Print the sitemap of a tenant's published pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.Sitemap(cmd.OutOrStdout(), args[0])
		},
	}
}

func feedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <tenant>",
		Short: "Print the RSS feed of a tenant's published pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer e.Close()
			site := siteConfig()
			return e.Feed(cmd.OutOrStdout(), args[0], pagecraft.FeedInfo{
				Title:       site.Name,
				Link:        site.URL,
				Description: site.Description,
			})
		},
	}
}

func mediaCmd(opts *options) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "media <tenant> <file>...",
		Short: "Import media files",
		Long: `Import media files for a tenant. Images are decoded, scaled down to at
most 1600px wide and stored as JPEG; other files, or all files with --raw,
are stored unchanged. The URL to reference from blocks is printed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			tenant := args[0]
			for _, path := range args[1:] {
				asset, err := importFile(e, tenant, path, raw)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", asset.ID, asset.MimeType, asset.URL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Store images without re-encoding")
	return cmd
}

func importFile(e *pagecraft.Engine, tenant, path string, raw bool) (pagecraft.MediaAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return pagecraft.MediaAsset{}, err
	}
	defer f.Close()

	name := filepath.Base(path)
	if !raw && isImageExt(name) {
		return e.ImportImage(tenant, f, name)
	}
	return e.ImportFile(tenant, f, name)
}

func isImageExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
