package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/hoangluudev/modmerge/fixer"
	"github.com/hoangluudev/modmerge/internal/cliutil"
)

// FixDupesFlags contains flags for the fixdupes command
type FixDupesFlags struct {
	Mode            string
	Format          string
	DryRun          bool
	RegistryOverlay string
}

// SetupFixDupesFlags creates and configures a FlagSet for the fixdupes command.
// Returns the FlagSet and a FixDupesFlags struct with bound flag variables.
func SetupFixDupesFlags() (*flag.FlagSet, *FixDupesFlags) {
	fs := flag.NewFlagSet("fixdupes", flag.ContinueOnError)
	flags := &FixDupesFlags{}

	fs.StringVar(&flags.Mode, "mode", string(fixer.ModeKeepLast), "collapse mode: keep-first, keep-last, or merge-children")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "report duplicate groups without rewriting the file")
	fs.StringVar(&flags.RegistryOverlay, "registry-overlay", "", "YAML file overriding or extending the schema registry")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: modmerge fixdupes [flags] <file> [file...]\n\n")
		cliutil.Writef(fs.Output(), "Collapse duplicated entries inside merged configuration files. Each\n")
		cliutil.Writef(fs.Output(), "group of same-identity entries is reduced to a single survivor.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nCollapse Modes (--mode):\n")
		cliutil.Writef(fs.Output(), "  keep-first      Keep the first occurrence, drop the rest\n")
		cliutil.Writef(fs.Output(), "  keep-last       Keep the last occurrence, drop the rest (default)\n")
		cliutil.Writef(fs.Output(), "  merge-children  Union the child elements of every occurrence; only\n")
		cliutil.Writef(fs.Output(), "                  valid for file types whose merge rule allows it\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  modmerge fixdupes mission/db/types.xml\n")
		cliutil.Writef(fs.Output(), "  modmerge fixdupes --mode merge-children mission/cfgspawnabletypes.xml\n")
		cliutil.Writef(fs.Output(), "  modmerge fixdupes --dry-run mission/db/*.xml\n")
	}

	return fs, flags
}

// HandleFixDupes executes the fixdupes command
func HandleFixDupes(args []string) error {
	fs, flags := SetupFixDupesFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("fixdupes command requires at least one file path")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if !fixer.IsValidMode(flags.Mode) {
		return fmt.Errorf("invalid mode '%s'. Valid modes: %v", flags.Mode, fixer.ValidModes())
	}

	reg, err := loadRegistry(flags.RegistryOverlay)
	if err != nil {
		return err
	}

	var (
		results []fixResultReport
		errs    []error
	)
	for _, path := range fs.Args() {
		opts := []fixer.Option{
			fixer.WithFilePath(path),
			fixer.WithMode(fixer.Mode(flags.Mode)),
			fixer.WithRegistry(reg),
		}
		if flags.DryRun {
			opts = append(opts, fixer.WithDryRun())
		}
		result, err := fixer.FixWithOptions(opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results = append(results, fixReport(result))
		if flags.Format == FormatText {
			renderFixText(result)
		}
	}

	if flags.Format != FormatText {
		if err := OutputStructured(results, flags.Format); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}

// fixResultReport is the structured-output shape of one fixed file.
type fixResultReport struct {
	Path    string         `json:"path" yaml:"path"`
	Schema  string         `json:"schema" yaml:"schema"`
	Written bool           `json:"written" yaml:"written"`
	Groups  []fixGroupItem `json:"groups,omitempty" yaml:"groups,omitempty"`
}

type fixGroupItem struct {
	Key       string `json:"key" yaml:"key"`
	Count     int    `json:"count" yaml:"count"`
	Identical bool   `json:"identical" yaml:"identical"`
	Mode      string `json:"mode" yaml:"mode"`
	Removed   int    `json:"removed" yaml:"removed"`
}

func fixReport(result *fixer.FixResult) fixResultReport {
	out := fixResultReport{
		Path:    result.SourcePath,
		Schema:  result.Model.Name,
		Written: result.Written,
	}
	for i, g := range result.Groups {
		out.Groups = append(out.Groups, fixGroupItem{
			Key:       g.Key,
			Count:     len(g.Elements),
			Identical: g.Identical,
			Mode:      string(result.Fixes[i].Mode),
			Removed:   result.Fixes[i].Removed,
		})
	}
	return out
}

func renderFixText(result *fixer.FixResult) {
	if !result.HasFixes() {
		Writef("%s: %s\n", result.SourcePath, statusGood.Sprint("no duplicates"))
		return
	}
	Writef("%s (%s)\n", result.SourcePath, result.Model.Name)
	for i, g := range result.Groups {
		kind := "divergent"
		if g.Identical {
			kind = "identical"
		}
		Writef("  %s %s: %d %s occurrence(s), removed %d (%s)\n",
			statusWarn.Sprint("dupe"), g.Key, len(g.Elements), kind,
			result.Fixes[i].Removed, result.Fixes[i].Mode)
	}
	if result.Written {
		Writef("  %s\n", statusGood.Sprint("rewritten"))
	} else {
		Writef("  %s\n", statusDim.Sprint("dry run, file unchanged"))
	}
}
