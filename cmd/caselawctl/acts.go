package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"CaseLawSearch/internal/app"
	"CaseLawSearch/internal/domain"
)

func actsCommand(build func() (*app.Application, error)) *cobra.Command {
	var (
		keyword  string
		download bool
		dir      string
	)

	cmd := &cobra.Command{
		Use:     "acts",
		Short:   "Find statutes by name and optionally download them",
		Example: `  caselawctl acts -q "marriage" --download --dir ./acts`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}

			found, err := application.ActSearch().Search(cmd.Context(), keyword, download)
			if err != nil {
				return err
			}

			if download {
				for i := range found {
					if !found[i].Downloaded() {
						continue
					}
					if err := saveAct(dir, found[i]); err != nil {
						found[i].DownloadError = err.Error()
					}
				}
			}

			renderActs(cmd.OutOrStdout(), found)
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyword, "query", "q", "", "act name or fragment (required)")
	cmd.Flags().BoolVar(&download, "download", false, "download each act document")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory for downloaded documents")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func renderActs(w io.Writer, found []domain.ActRecord) {
	if len(found) == 0 {
		fmt.Fprintln(w, "No acts found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Act", "Link", "Download"})
	for i, act := range found {
		status := "-"
		switch {
		case act.DownloadError != "":
			status = "failed: " + act.DownloadError
		case act.Downloaded():
			status = fmt.Sprintf("%d bytes", len(act.Content))
		}
		t.AppendRow(table.Row{i + 1, act.Title, act.Link, status})
	}
	t.Render()
}

func saveAct(dir string, act domain.ActRecord) error {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, act.Title)
	path := filepath.Join(dir, name+extensionFor(act.ContentType))
	if err := os.WriteFile(path, act.Content, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", act.Title, err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "pdf"):
		return ".pdf"
	case strings.Contains(contentType, "html"):
		return ".html"
	default:
		return ".bin"
	}
}
