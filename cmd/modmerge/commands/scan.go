package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/hoangluudev/modmerge/internal/cliutil"
	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/scanner"
)

// ScanFlags contains flags for the scan command
type ScanFlags struct {
	Format          string
	IncludeUnknown  bool
	Skip            stringList
	RegistryOverlay string
	Quiet           bool
}

// SetupScanFlags creates and configures a FlagSet for the scan command.
// Returns the FlagSet and a ScanFlags struct with bound flag variables.
func SetupScanFlags() (*flag.FlagSet, *ScanFlags) {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	flags := &ScanFlags{}

	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.IncludeUnknown, "include-unknown", false, "report unrecognized XML files instead of dropping them")
	fs.Var(&flags.Skip, "skip", "mod folder name to skip (repeatable)")
	fs.StringVar(&flags.RegistryOverlay, "registry-overlay", "", "YAML file overriding or extending the schema registry")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress per-file progress")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress per-file progress")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: modmerge scan [flags] <mod-dir> [mod-dir...]\n\n")
		cliutil.Writef(fs.Output(), "Inventory the configuration files each mod directory ships,\n")
		cliutil.Writef(fs.Output(), "classifying every XML file against the schema registry.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  modmerge scan mods/@Trader\n")
		cliutil.Writef(fs.Output(), "  modmerge scan -f json mods/@Trader mods/@Dogs\n")
		cliutil.Writef(fs.Output(), "  modmerge scan --skip @BaseBuilding --include-unknown mods/*\n")
	}

	return fs, flags
}

// HandleScan executes the scan command
func HandleScan(args []string) error {
	fs, flags := SetupScanFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("scan command requires at least one mod directory")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	reg, err := loadRegistry(flags.RegistryOverlay)
	if err != nil {
		return err
	}

	opts := scanOptions(flags.IncludeUnknown, flags.Skip, reg)
	if !flags.Quiet && flags.Format == FormatText {
		opts = append(opts, scanner.WithProgress(func(ev scanner.ProgressEvent) {
			Errorf("scanning %s (%d/%d): %s\n", ev.ModID, ev.Index, ev.Total, ev.Path)
		}))
	}

	infos, err := scanner.Scan(context.Background(), fs.Args(), opts...)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		return OutputStructured(scanReport(infos), flags.Format)
	}

	renderScanText(infos)
	return nil
}

// scanReportMod is the structured-output shape of one scanned mod.
type scanReportMod struct {
	ModID        string           `json:"mod_id" yaml:"mod_id"`
	DisplayName  string           `json:"display_name" yaml:"display_name"`
	Dir          string           `json:"dir" yaml:"dir"`
	NeedsReview  bool             `json:"needs_review" yaml:"needs_review"`
	ReviewReason string           `json:"review_reason,omitempty" yaml:"review_reason,omitempty"`
	Files        []scanReportFile `json:"files" yaml:"files"`
}

type scanReportFile struct {
	Path       string `json:"path" yaml:"path"`
	Name       string `json:"name" yaml:"name"`
	Schema     string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Strategy   string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	EntryCount int    `json:"entry_count" yaml:"entry_count"`
	Status     string `json:"status" yaml:"status"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Warnings   int    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func scanReport(infos []scanner.ModConfigInfo) []scanReportMod {
	mods := make([]scanReportMod, 0, len(infos))
	for _, info := range infos {
		m := scanReportMod{
			ModID:        info.ModID,
			DisplayName:  info.DisplayName,
			Dir:          info.Dir,
			NeedsReview:  info.NeedsReview,
			ReviewReason: info.ReviewReason,
			Files:        make([]scanReportFile, 0, len(info.Files)),
		}
		for _, f := range info.Files {
			rf := scanReportFile{
				Path:       f.Path,
				Name:       f.Name,
				EntryCount: f.EntryCount,
				Status:     f.Status.String(),
				Reason:     f.Reason,
				Warnings:   len(f.Warnings),
			}
			if f.Model != nil {
				rf.Schema = f.Model.Name
				rf.Strategy = f.Model.Strategy.String()
			}
			m.Files = append(m.Files, rf)
		}
		mods = append(mods, m)
	}
	return mods
}

func renderScanText(infos []scanner.ModConfigInfo) {
	for _, info := range infos {
		Writef("%s (%s)\n", info.DisplayName, info.Dir)
		if info.NeedsReview {
			Writef("  %s %s\n", statusWarn.Sprint("needs review:"), info.ReviewReason)
		}
		for _, f := range info.Files {
			c := fileStatusColor(f.Status)
			switch f.Status {
			case scanner.FileMergeable:
				Writef("  %s %s: %d entries (%s, %s)\n",
					c.Sprint("ok"), f.Path, f.EntryCount, f.Model.Name, f.Model.Strategy)
				if f.Reason != "" {
					Writef("    %s %s\n", statusWarn.Sprint("note:"), f.Reason)
				}
			default:
				Writef("  %s %s: %s\n", c.Sprint(f.Status.String()), f.Path, f.Reason)
			}
			for _, msg := range parser.WarningStrings(f.Warnings) {
				Writef("    %s %s\n", statusDim.Sprint("warning:"), msg)
			}
		}
	}
}
