package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/metrics"
	"github.com/scrim-network/pubstats/internal/pdf"
	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/storage"
)

var (
	saveOut       string
	saveSQLite    bool
	saveBibTeX    bool
	saveJSONL     bool
	saveNoPDF     bool
	saveOpen      bool
	saveAppendBib string
)

func init() {
	saveCmd.Flags().StringVar(&saveOut, "out", "", "Output directory (default from config, else .)")
	saveCmd.Flags().BoolVar(&saveSQLite, "sqlite", false, "Also write pubstats.db")
	saveCmd.Flags().BoolVar(&saveBibTeX, "bibtex", false, "Also write pubstats.bib")
	saveCmd.Flags().BoolVar(&saveJSONL, "jsonl", false, "Also write authors.jsonl")
	saveCmd.Flags().BoolVar(&saveNoPDF, "no-pdf", false, "Skip pubstats.pdf")
	saveCmd.Flags().BoolVar(&saveOpen, "open", false, "Open the PDF when done")
	saveCmd.Flags().StringVar(&saveAppendBib, "append-bib", "", "Append new entries to an existing .bib library")
	rootCmd.AddCommand(saveCmd)
}

var saveCmd = &cobra.Command{
	Use:   "save <key-file> <data-file> [tags...]",
	Short: "Write the report to files",
	Long: `Write the report to files in the output directory:

  pubstats1.csv  one row per key author
  pubstats2.csv  publication x author/institution/discipline matrix
  pubstats.pdf   the printable report (unless --no-pdf)
  pubstats.bib   BibTeX of the kept publications (--bibtex)
  authors.jsonl  one author summary per line (--jsonl)
  pubstats.db    SQLite database of the run (--sqlite)

Examples:
  pubstats save key.csv paperpile.json --out reports
  pubstats save key.csv paperpile.json SCRiM --sqlite --bibtex`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSave,
}

// SavedFile describes one written artifact.
type SavedFile struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Pages    int    `json:"pages,omitempty"`
	Appended int    `json:"appended,omitempty"`
}

// SaveResponse is the response for the save command.
type SaveResponse struct {
	RunID        string      `json:"run_id"`
	OutputDir    string      `json:"output_dir"`
	Authors      int         `json:"authors"`
	Publications int         `json:"publications"`
	Files        []SavedFile `json:"files"`
}

// artifact is one file the save command writes.
type artifact struct {
	kind  string
	name  string
	write func(ctx context.Context, path string, rep *report.Report) (SavedFile, error)
}

func runSave(cmd *cobra.Command, args []string) error {
	if saveOut != "" {
		cfg.OutputDir = saveOut
	}
	outDir := cfg.OutputPath("")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		exitWithError(ExitConfigError, "creating output directory: %v", err)
	}

	rec := metrics.New()
	rep := mustBuildReport(cmd.Context(), args, rec)

	artifacts := selectArtifacts()
	files := make([]SavedFile, len(artifacts))

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, a := range artifacts {
		g.Go(func() error {
			path := cfg.OutputPath(a.name)
			saved, err := a.write(ctx, path, rep)
			if err != nil {
				return fmt.Errorf("writing %s: %w", a.kind, err)
			}
			saved.Kind, saved.Path = a.kind, path
			files[i] = saved
			logger.Debug("artifact written", "kind", a.kind, "path", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if saveAppendBib != "" {
		n, err := export.AppendBibTeX(saveAppendBib, rep)
		if err != nil {
			exitWithError(ExitError, "appending to %s: %v", saveAppendBib, err)
		}
		files = append(files, SavedFile{Kind: "bibtex-library", Path: saveAppendBib, Appended: n})
	}

	writeMetrics(rec)

	if saveOpen && cfg.PDF && !saveNoPDF {
		if err := pdf.NewOpener(cfg.PDFViewer).Open(cfg.OutputPath(export.PDFName)); err != nil {
			logger.Warn("opening pdf", "error", err)
		}
	}

	resp := SaveResponse{
		RunID:        rep.RunID.String(),
		OutputDir:    outDir,
		Authors:      rep.Authors.Len(),
		Publications: len(rep.Publications),
		Files:        files,
	}
	if humanOutput {
		outputHuman("Saved %d publications for %d authors to %s\n", resp.Publications, resp.Authors, resp.OutputDir)
		for _, f := range resp.Files {
			switch {
			case f.Pages > 0:
				outputHuman("  %-15s %s (%d pages)\n", f.Kind, f.Path, f.Pages)
			case f.Kind == "bibtex-library":
				outputHuman("  %-15s %s (%d new entries)\n", f.Kind, f.Path, f.Appended)
			default:
				outputHuman("  %-15s %s\n", f.Kind, f.Path)
			}
		}
	} else {
		outputJSON(resp)
	}
	return nil
}

// selectArtifacts returns the artifacts enabled by config and flags.
func selectArtifacts() []artifact {
	artifacts := []artifact{
		{"author-csv", export.AuthorCSVName, writerArtifact(export.WriteAuthorCSV)},
		{"matrix-csv", export.MatrixCSVName, writerArtifact(export.WriteMatrixCSV)},
	}
	if cfg.PDF && !saveNoPDF {
		artifacts = append(artifacts, artifact{"pdf", export.PDFName, writePDF})
	}
	if cfg.BibTeX || saveBibTeX {
		artifacts = append(artifacts, artifact{"bibtex", export.BibTeXName, writerArtifact(export.WriteBibTeX)})
	}
	if cfg.JSONL || saveJSONL {
		artifacts = append(artifacts, artifact{"jsonl", storage.AuthorsJSONLName, pathArtifact(storage.WriteAuthorsJSONL)})
	}
	if cfg.SQLite || saveSQLite {
		artifacts = append(artifacts, artifact{"sqlite", storage.ReportDBName, pathArtifact(storage.WriteReportDB)})
	}
	return artifacts
}

func writerArtifact(write func(io.Writer, *report.Report) error) func(context.Context, string, *report.Report) (SavedFile, error) {
	return func(ctx context.Context, path string, rep *report.Report) (SavedFile, error) {
		if err := ctx.Err(); err != nil {
			return SavedFile{}, err
		}
		return SavedFile{}, writeFile(path, func(w io.Writer) error { return write(w, rep) })
	}
}

func pathArtifact(write func(string, *report.Report) error) func(context.Context, string, *report.Report) (SavedFile, error) {
	return func(ctx context.Context, path string, rep *report.Report) (SavedFile, error) {
		if err := ctx.Err(); err != nil {
			return SavedFile{}, err
		}
		return SavedFile{}, write(path, rep)
	}
}

// writePDF renders the PDF and reads it back to report its page count.
func writePDF(ctx context.Context, path string, rep *report.Report) (SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return SavedFile{}, err
	}
	if err := writeFile(path, func(w io.Writer) error { return export.WritePDF(w, rep) }); err != nil {
		return SavedFile{}, err
	}
	info, err := pdf.Inspect(path)
	if err != nil {
		return SavedFile{}, fmt.Errorf("reading back %s: %w", path, err)
	}
	return SavedFile{Pages: info.Pages}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
