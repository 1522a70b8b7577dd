package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hoangluudev/modmerge/internal/cliutil"
	"github.com/hoangluudev/modmerge/registry"
)

// RegistryFlags contains flags for the registry command
type RegistryFlags struct {
	Format          string
	RegistryOverlay string
}

// SetupRegistryFlags creates and configures a FlagSet for the registry command.
// Returns the FlagSet and a RegistryFlags struct with bound flag variables.
func SetupRegistryFlags() (*flag.FlagSet, *RegistryFlags) {
	fs := flag.NewFlagSet("registry", flag.ContinueOnError)
	flags := &RegistryFlags{}

	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.RegistryOverlay, "registry-overlay", "", "YAML file overriding or extending the schema registry")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: modmerge registry [flags]\n\n")
		cliutil.Writef(fs.Output(), "List the configuration file types the tool knows how to merge,\n")
		cliutil.Writef(fs.Output(), "including any overlay additions.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  modmerge registry\n")
		cliutil.Writef(fs.Output(), "  modmerge registry --registry-overlay custom.yaml -f yaml\n")
	}

	return fs, flags
}

// HandleRegistry executes the registry command
func HandleRegistry(args []string) error {
	fs, flags := SetupRegistryFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("registry command takes no arguments")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	reg, err := loadRegistry(flags.RegistryOverlay)
	if err != nil {
		return err
	}

	models := reg.Models()

	if flags.Format != FormatText {
		return OutputStructured(registryReport(models), flags.Format)
	}

	for _, m := range models {
		Writef("%s\n", m.Name)
		Writef("  root tag:  %s\n", m.RootTag)
		if m.HasEntries() {
			Writef("  entries:   %s\n", strings.Join(m.EntryTags, ", "))
		} else {
			Writef("  entries:   (whole document)\n")
		}
		if m.IdentityAttr != "" {
			Writef("  identity:  @%s", m.IdentityAttr)
			if m.PositionIdentity {
				Writef(" + position")
			}
			Writef("\n")
		}
		Writef("  strategy:  %s\n", m.Strategy)
		if len(m.MergeableChildren) > 0 {
			Writef("  mergeable: %s\n", strings.Join(m.MergeableChildren, ", "))
		}
	}
	return nil
}

// registryModelReport is the structured-output shape of one schema model.
type registryModelReport struct {
	Name              string   `json:"name" yaml:"name"`
	RootTag           string   `json:"root_tag" yaml:"root_tag"`
	EntryTags         []string `json:"entry_tags,omitempty" yaml:"entry_tags,omitempty"`
	IdentityAttr      string   `json:"identity_attr,omitempty" yaml:"identity_attr,omitempty"`
	PositionIdentity  bool     `json:"position_identity,omitempty" yaml:"position_identity,omitempty"`
	Strategy          string   `json:"strategy" yaml:"strategy"`
	MergeableChildren []string `json:"mergeable_children,omitempty" yaml:"mergeable_children,omitempty"`
}

func registryReport(models []*registry.ConfigModel) []registryModelReport {
	out := make([]registryModelReport, 0, len(models))
	for _, m := range models {
		out = append(out, registryModelReport{
			Name:              m.Name,
			RootTag:           m.RootTag,
			EntryTags:         m.EntryTags,
			IdentityAttr:      m.IdentityAttr,
			PositionIdentity:  m.PositionIdentity,
			Strategy:          m.Strategy.String(),
			MergeableChildren: m.MergeableChildren,
		})
	}
	return out
}
