package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hoangluudev/modmerge/internal/cliutil"
	"github.com/hoangluudev/modmerge/merger"
	"github.com/hoangluudev/modmerge/scanner"
)

// MergeFlags contains flags for the merge command
type MergeFlags struct {
	MissionDir      string
	Resolve         string
	Format          string
	IncludeUnknown  bool
	Skip            stringList
	RegistryOverlay string
	DryRun          bool
	Yes             bool
	Quiet           bool
}

// SetupMergeFlags creates and configures a FlagSet for the merge command.
// Returns the FlagSet and a MergeFlags struct with bound flag variables.
func SetupMergeFlags() (*flag.FlagSet, *MergeFlags) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	flags := &MergeFlags{}

	fs.StringVar(&flags.MissionDir, "m", "", "mission directory to merge into (required)")
	fs.StringVar(&flags.MissionDir, "mission", "", "mission directory to merge into (required)")
	fs.StringVar(&flags.Resolve, "resolve", "fail", "conflict policy: fail, first (keep mission state), or last (latest mod wins)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.IncludeUnknown, "include-unknown", false, "copy unrecognized XML files into the mission verbatim")
	fs.Var(&flags.Skip, "skip", "mod folder name to skip (repeatable)")
	fs.StringVar(&flags.RegistryOverlay, "registry-overlay", "", "YAML file overriding or extending the schema registry")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "build and report the merge plan without writing anything")
	fs.BoolVar(&flags.Yes, "y", false, "skip the confirmation prompt")
	fs.BoolVar(&flags.Yes, "yes", false, "skip the confirmation prompt")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only report failures")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only report failures")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: modmerge merge -m <mission-dir> [flags] <mod-dir> [mod-dir...]\n\n")
		cliutil.Writef(fs.Output(), "Merge mod configuration entries into a mission directory. Files are\n")
		cliutil.Writef(fs.Output(), "rewritten atomically; a target with unresolved conflicts fails unless\n")
		cliutil.Writef(fs.Output(), "--resolve names a policy.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nConflict Policies (--resolve):\n")
		cliutil.Writef(fs.Output(), "  fail   Refuse to write any target with an unresolved conflict (default)\n")
		cliutil.Writef(fs.Output(), "  first  Keep the first candidate; the mission's existing entry wins\n")
		cliutil.Writef(fs.Output(), "  last   Keep the last candidate; the most recently scanned mod wins\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  modmerge merge -m mission mods/@Trader\n")
		cliutil.Writef(fs.Output(), "  modmerge merge -m mission --resolve last -y mods/@Trader mods/@Dogs\n")
		cliutil.Writef(fs.Output(), "  modmerge merge -m mission --dry-run mods/@Trader\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    All targets merged (or dry run completed)\n")
		cliutil.Writef(fs.Output(), "  1    One or more targets failed; successful targets stay written\n")
	}

	return fs, flags
}

// HandleMerge executes the merge command
func HandleMerge(args []string) error {
	fs, flags := SetupMergeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.MissionDir == "" {
		fs.Usage()
		return fmt.Errorf("merge command requires a mission directory (-m)")
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("merge command requires at least one mod directory")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	execOpts, err := resolveExecOptions(flags.Resolve)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(flags.RegistryOverlay)
	if err != nil {
		return err
	}

	ctx := context.Background()
	infos, err := scanner.Scan(ctx, fs.Args(), scanOptions(flags.IncludeUnknown, flags.Skip, reg)...)
	if err != nil {
		return err
	}

	preview, err := merger.BuildPreview(ctx, flags.MissionDir, infos)
	if err != nil {
		return err
	}

	if flags.DryRun {
		if flags.Format != FormatText {
			return OutputStructured(buildPreviewReport(preview), flags.Format)
		}
		renderPreviewText(preview)
		return nil
	}

	if n := preview.UnresolvedCount(); n > 0 && flags.Resolve == "fail" {
		renderPreviewText(preview)
		return fmt.Errorf("%d unresolved conflict group(s); rerun with --resolve first or --resolve last", n)
	}

	if !flags.Yes {
		if !confirmMerge(preview, os.Stdin) {
			Errorf("merge aborted\n")
			return nil
		}
	}

	report, execErr := merger.Execute(ctx, flags.MissionDir, preview, execOpts...)
	report.Finalize()

	if flags.Format != FormatText {
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	} else {
		renderMergeText(report, flags.Quiet)
	}

	return execErr
}

// resolveExecOptions maps a --resolve policy name to executor options.
func resolveExecOptions(policy string) ([]merger.ExecOption, error) {
	switch policy {
	case "fail":
		return nil, nil
	case "first":
		return []merger.ExecOption{merger.WithForced(merger.ForcedFirst)}, nil
	case "last":
		return []merger.ExecOption{merger.WithForced(merger.ForcedLast)}, nil
	default:
		return nil, fmt.Errorf("invalid resolve policy '%s'. Valid policies: fail, first, last", policy)
	}
}

// confirmMerge prompts on stderr and reads a yes/no answer. Anything but an
// explicit yes aborts.
func confirmMerge(preview *merger.MergePreview, in *os.File) bool {
	Errorf("About to rewrite %d file(s) under %s", len(preview.Targets), preview.MissionDir)
	if n := len(preview.CopyFiles); n > 0 {
		Errorf(" and copy %d file(s)", n)
	}
	Errorf(". Continue? [y/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func renderMergeText(report *merger.MergeReport, quiet bool) {
	for _, fr := range report.Files {
		switch {
		case fr.Err != nil:
			Writef("%s %s: %v\n", statusBad.Sprint("failed"), fr.Target, fr.Err)
		case fr.Copied:
			if !quiet {
				Writef("%s %s (verbatim)\n", statusWarn.Sprint("copied"), fr.Target)
			}
		case fr.Written:
			if !quiet {
				Writef("%s %s: %d new, %d merged, %d duplicate", statusGood.Sprint("written"), fr.Target, fr.New, fr.Merged, fr.Duplicate)
				if fr.Forced > 0 {
					Writef(", %s", statusWarn.Sprintf("%d forced", fr.Forced))
				}
				Writef("\n")
			}
		default:
			if !quiet {
				Writef("%s %s: no changes\n", statusDim.Sprint("skipped"), fr.Target)
			}
		}
	}
	Writef("%s\n", report.Summary())
}
