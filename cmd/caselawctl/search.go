package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"CaseLawSearch/internal/app"
	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/infrastructure/export"
	"CaseLawSearch/internal/usecase"
)

const titleColumnWidth = 70

type searchFlags struct {
	keyword  string
	court    string
	from     int
	to       int
	district string
	ipcOnly  bool
	page     int
	export   string
}

func searchCommand(build func() (*app.Application, error)) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search judgments by keyword",
		Example: `  caselawctl search -q "Contract Act 2015"
  caselawctl search -q cheating --court "Bombay High Court" --district Mumbai --ipc-only --export cases.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}

			q := f.query()
			if district := domain.DetectDistrict(q.Keyword); q.District == "" && district != "" && !q.AllCourts() {
				fmt.Fprintf(cmd.ErrOrStderr(), "district %q mentioned in keyword; pass --district to filter by it\n", district)
			}

			out, err := application.Pipeline().Search(cmd.Context(), q, nil)
			var ferr *domain.FetchError
			if err != nil && !errors.As(err, &ferr) {
				return err
			}

			renderOutcome(cmd.OutOrStdout(), out)
			if ferr != nil {
				return ferr
			}

			if f.export != "" && len(out.Records) > 0 {
				if err := writeExport(application.Exporters(), f.export, out.Records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d case(s) to %s\n", len(out.Records), f.export)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.keyword, "query", "q", "", "keyword to search for (required)")
	flags.StringVar(&f.court, "court", domain.AllCourts, "court filter")
	flags.IntVar(&f.from, "from", domain.MinYear, "earliest decision year")
	flags.IntVar(&f.to, "to", domain.MaxYear, "latest decision year")
	flags.StringVar(&f.district, "district", "", "district that must appear in the case title")
	flags.BoolVar(&f.ipcOnly, "ipc-only", false, "keep only cases whose snippet mentions IPC")
	flags.IntVar(&f.page, "page", 0, "upstream result page")
	flags.StringVar(&f.export, "export", "", "write results to a .pdf, .docx or .xlsx file")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func (f searchFlags) query() domain.SearchQuery {
	court := f.court
	if canonical, ok := domain.CanonicalCourt(court); ok {
		court = canonical
	}
	return domain.SearchQuery{
		Keyword:  f.keyword,
		Court:    court,
		YearFrom: f.from,
		YearTo:   f.to,
		District: f.district,
		IPCOnly:  f.ipcOnly,
		Page:     f.page,
	}
}

func renderOutcome(w io.Writer, out usecase.Outcome) {
	for _, warning := range out.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if out.Notice != "" {
		fmt.Fprintln(w, out.Notice)
	}
	fmt.Fprintln(w, out.Message)
	if out.FallbackURL != "" {
		fmt.Fprintf(w, "Search manually: %s\n", out.FallbackURL)
	}
	if len(out.Records) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = true
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: titleColumnWidth},
	})
	t.AppendHeader(table.Row{"#", "Title", "Year", "Court", "Acts", "Link"})
	for i, rec := range out.Records {
		t.AppendRow(table.Row{i + 1, rec.Title, rec.Year.String(), rec.Court, rec.ActsLabel(), rec.Link})
	}
	t.AppendFooter(table.Row{"Total", len(out.Records), "", "", "", fmt.Sprintf("Keyword: %s", out.EffectiveKeyword)})
	t.Render()
}

func writeExport(reg *export.Registry, path string, records []domain.CaseRecord) (err error) {
	ex, err := reg.ForFile(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := ex.Export(f, export.ReportTitle, records); err != nil {
		return fmt.Errorf("export %s: %w", ex.Format(), err)
	}
	return nil
}
