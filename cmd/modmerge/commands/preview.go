package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/hoangluudev/modmerge/internal/cliutil"
	"github.com/hoangluudev/modmerge/merger"
	"github.com/hoangluudev/modmerge/scanner"
)

// PreviewFlags contains flags for the preview command
type PreviewFlags struct {
	MissionDir      string
	Format          string
	IncludeUnknown  bool
	Skip            stringList
	RegistryOverlay string
}

// SetupPreviewFlags creates and configures a FlagSet for the preview command.
// Returns the FlagSet and a PreviewFlags struct with bound flag variables.
func SetupPreviewFlags() (*flag.FlagSet, *PreviewFlags) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	flags := &PreviewFlags{}

	fs.StringVar(&flags.MissionDir, "m", "", "mission directory to merge into (required)")
	fs.StringVar(&flags.MissionDir, "mission", "", "mission directory to merge into (required)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.IncludeUnknown, "include-unknown", false, "plan verbatim copies for unrecognized XML files")
	fs.Var(&flags.Skip, "skip", "mod folder name to skip (repeatable)")
	fs.StringVar(&flags.RegistryOverlay, "registry-overlay", "", "YAML file overriding or extending the schema registry")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: modmerge preview -m <mission-dir> [flags] <mod-dir> [mod-dir...]\n\n")
		cliutil.Writef(fs.Output(), "Dry-run a merge: classify every entry the mods would contribute as\n")
		cliutil.Writef(fs.Output(), "new, duplicate, or conflicting against the mission's current files.\n")
		cliutil.Writef(fs.Output(), "Nothing is written.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  modmerge preview -m mission mods/@Trader\n")
		cliutil.Writef(fs.Output(), "  modmerge preview -m mission -f yaml mods/@Trader mods/@Dogs\n")
	}

	return fs, flags
}

// HandlePreview executes the preview command
func HandlePreview(args []string) error {
	fs, flags := SetupPreviewFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.MissionDir == "" {
		fs.Usage()
		return fmt.Errorf("preview command requires a mission directory (-m)")
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("preview command requires at least one mod directory")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
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

	if flags.Format != FormatText {
		return OutputStructured(buildPreviewReport(preview), flags.Format)
	}

	renderPreviewText(preview)
	return nil
}

// previewReportTarget is the structured-output shape of one target file's plan.
type previewReportTarget struct {
	Target     string                  `json:"target" yaml:"target"`
	TargetPath string                  `json:"target_path" yaml:"target_path"`
	Strategy   string                  `json:"strategy" yaml:"strategy"`
	New        int                     `json:"new" yaml:"new"`
	Duplicate  int                     `json:"duplicate" yaml:"duplicate"`
	Skipped    int                     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Conflicts  []previewReportConflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

type previewReportConflict struct {
	Key     string               `json:"key" yaml:"key"`
	Entries []previewReportEntry `json:"entries" yaml:"entries"`
}

type previewReportEntry struct {
	SourceMod string `json:"source_mod" yaml:"source_mod"`
	Signature string `json:"signature" yaml:"signature"`
}

type previewReport struct {
	MissionDir string                `json:"mission_dir" yaml:"mission_dir"`
	Targets    []previewReportTarget `json:"targets" yaml:"targets"`
	CopyFiles  []merger.CopyFile     `json:"copy_files,omitempty" yaml:"copy_files,omitempty"`
	Skipped    []string              `json:"skipped_targets,omitempty" yaml:"skipped_targets,omitempty"`
	Unresolved int                   `json:"unresolved_conflicts" yaml:"unresolved_conflicts"`
}

func buildPreviewReport(p *merger.MergePreview) previewReport {
	out := previewReport{
		MissionDir: p.MissionDir,
		Targets:    make([]previewReportTarget, 0, len(p.Targets)),
		CopyFiles:  p.CopyFiles,
		Unresolved: p.UnresolvedCount(),
	}
	for _, target := range p.Targets {
		res := p.Results[target]
		rt := previewReportTarget{
			Target:     target,
			TargetPath: res.TargetPath,
			Strategy:   res.Model.Strategy.String(),
			New:        res.NewCount(),
			Duplicate:  res.DuplicateCount(),
			Skipped:    len(res.SkippedEntries),
		}
		for _, g := range res.ConflictGroups {
			rc := previewReportConflict{Key: g.Key}
			for _, e := range g.Entries {
				rc.Entries = append(rc.Entries, previewReportEntry{
					SourceMod: e.SourceMod,
					Signature: string(e.Signature)[:12],
				})
			}
			rt.Conflicts = append(rt.Conflicts, rc)
		}
		out.Targets = append(out.Targets, rt)
	}
	for _, s := range p.Skipped {
		out.Skipped = append(out.Skipped, fmt.Sprintf("%s: %s", s.Target, s.Reason))
	}
	return out
}

func renderPreviewText(p *merger.MergePreview) {
	Writef("Mission: %s\n", p.MissionDir)
	for _, target := range p.Targets {
		res := p.Results[target]
		Writef("\n%s (%s)\n", target, res.Model.Strategy)
		Writef("  %s %d new, %d duplicate", statusGood.Sprint("+"), res.NewCount(), res.DuplicateCount())
		if n := len(res.SkippedEntries); n > 0 {
			Writef(", %d skipped", n)
		}
		Writef("\n")
		for _, g := range res.ConflictGroups {
			Writef("  %s %s\n", statusBad.Sprint("conflict"), g.Key)
			for _, e := range g.Entries {
				Writef("    - %s (%s)\n", e.SourceMod, string(e.Signature)[:12])
			}
		}
	}
	for _, cf := range p.CopyFiles {
		Writef("\n%s %s -> %s (from %s)\n", statusWarn.Sprint("copy"), cf.SourcePath, cf.TargetName, cf.SourceMod)
	}
	for _, s := range p.Skipped {
		Writef("\n%s %s: %s\n", statusBad.Sprint("skipped"), s.Target, s.Reason)
	}
	if n := p.UnresolvedCount(); n > 0 {
		Writef("\n%s\n", statusBad.Sprintf("%d unresolved conflict group(s); rerun with 'modmerge merge --resolve first|last' or fix the mods", n))
	} else {
		Writef("\n%s\n", statusGood.Sprint("no conflicts; safe to merge"))
	}
}
