package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/form"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/Veraticus/fintrack/internal/notify"
	"github.com/Veraticus/fintrack/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// importResult counts what happened to the drafts of one import run.
type importResult struct {
	failures   []string
	files      int
	parsed     int
	duplicates int
	saved      int
}

func (r *importResult) String() string {
	return fmt.Sprintf("%d of %d entries saved, %d failed", r.saved, r.parsed-r.duplicates, len(r.failures))
}

func importEntriesCmd(s *session) *cobra.Command {
	var (
		categoryID int
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import entries from OFX/QFX files",
		Long: `Create one entry per transaction found in OFX or QFX statements exported
from your bank. Debits become expenses and credits become revenue; every
imported entry is marked as paid and filed under --category-id.`,
		Example: `  # Import a single statement
  fintrack entries import ~/Downloads/checking_2024_06.qfx --category-id 3

  # Import every statement in a directory
  fintrack entries import ~/Downloads/*.ofx --category-id 3 --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(s, args)
			if err != nil {
				return err
			}

			result := &importResult{files: len(files)}
			drafts := s.parseStatements(cmd.Context(), files, result)
			if len(drafts) == 0 {
				return common.NewUserError("no transactions found to import", ofx.ErrNoTransactions)
			}

			if dryRun {
				entries := make([]*model.Entry, 0, len(drafts))
				for i := range drafts {
					drafts[i].Entry.CategoryID = categoryID
					entries = append(entries, &drafts[i].Entry)
				}
				fmt.Fprintln(s.out, cli.RenderEntries(entries, nil))
				fmt.Fprintln(s.out, cli.FormatInfo(fmt.Sprintf("Dry run: %d entries would be imported", len(entries))))
				return nil
			}

			return s.importDrafts(cmd.Context(), drafts, categoryID, result)
		},
	}

	cmd.Flags().IntVarP(&categoryID, "category-id", "c", 0, "Category for the imported entries")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("category-id")

	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(s *session, patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			s.logger.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", nil)
	}
	return files, nil
}

// parseStatements reads every file and drops transactions already seen.
// Unreadable files are logged and skipped.
func (s *session) parseStatements(ctx context.Context, files []string, result *importResult) []ofx.Draft {
	parser := ofx.NewParser(s.logger)
	seen := make(map[string]bool)
	var drafts []ofx.Draft

	for _, path := range files {
		parsed, err := parseStatement(ctx, parser, path)
		if err != nil {
			s.logger.Error("Failed to parse OFX file", "file", path, "error", err)
			fmt.Fprintln(s.errOut, cli.FormatWarning(fmt.Sprintf("Skipping %s: %v", filepath.Base(path), err)))
			continue
		}

		added := 0
		for _, d := range parsed {
			key := d.Account + "/" + d.FITID
			if d.FITID != "" && seen[key] {
				result.duplicates++
				continue
			}
			seen[key] = true
			drafts = append(drafts, d)
			added++
		}
		result.parsed += len(parsed)
		s.logger.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(parsed),
			"added", added,
			"duplicates", len(parsed)-added)
	}
	return drafts
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseFile(ctx, f)
}

// importDrafts submits every draft through a New-mode entry form, the same
// way a user filling the form would.
func (s *session) importDrafts(ctx context.Context, drafts []ofx.Draft, categoryID int, result *importResult) error {
	categories, entries, err := s.services()
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(s.errOut)
	ctx = interrupts.HandleInterrupts(ctx, result.String)
	defer interrupts.Stop()

	// Per-draft toasts would break the progress bar; failures are reported
	// at the end instead.
	notifier := notify.NewRecorder(false)
	path := form.EntryForm.Path + "/new"
	ctrl := form.NewEntryController(ctx, entries, categories, s.formDeps(notifier, nav.NewHistory(path)))
	defer ctrl.Close()

	bar := newProgressBar(s.errOut, len(drafts))
	for _, d := range drafts {
		if ctx.Err() != nil {
			break
		}

		if err := openForm(ctrl, path); err != nil {
			return err
		}
		values := form.EntryCodec{}.Encode(d.Entry)
		delete(values, "id")
		values["categoryId"] = strconv.Itoa(categoryID)

		if err := submitForm(ctrl, values); err != nil {
			s.logger.Warn("Entry not imported", "fitid", d.FITID, "name", d.Entry.Name, "error", err)
			result.failures = append(result.failures, fmt.Sprintf("%s (%s): %v", d.Entry.Name, d.Entry.Date, err))
		} else {
			result.saved++
		}
		_ = bar.Add(1)
	}

	if interrupts.WasInterrupted() {
		return common.NewUserError("import interrupted: "+result.String(), ctx.Err())
	}

	fmt.Fprintln(s.out, cli.FormatSuccess(fmt.Sprintf("Imported %d entries from %d files", result.saved, result.files)))
	if result.duplicates > 0 {
		fmt.Fprintln(s.out, cli.FormatInfo(fmt.Sprintf("Skipped %d duplicate transactions", result.duplicates)))
	}
	for _, f := range result.failures {
		fmt.Fprintln(s.out, cli.FormatError(f))
	}
	if len(result.failures) > 0 {
		return common.NewUserError(result.String(), errNotSaved)
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing entries...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
