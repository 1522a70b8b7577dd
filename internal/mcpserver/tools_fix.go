package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hoangluudev/modmerge/fixer"
)

type fixInput struct {
	File            string `json:"file"                       jsonschema:"Configuration file to de-duplicate"`
	Mode            string `json:"mode,omitempty"             jsonschema:"Collapse mode: keep-first\\, keep-last\\, or merge-children (default MODMERGE_FIX_MODE)"`
	DryRun          bool   `json:"dry_run,omitempty"          jsonschema:"Report duplicate groups without writing"`
	RegistryOverlay string `json:"registry_overlay,omitempty" jsonschema:"YAML file extending the schema registry"`
}

type fixGroup struct {
	Key         string `json:"key"`
	Occurrences int    `json:"occurrences"`
	Identical   bool   `json:"identical"`
}

type fixOutput struct {
	Model   string     `json:"model"`
	Groups  []fixGroup `json:"groups,omitempty"`
	Removed int        `json:"removed"`
	Written bool       `json:"written"`
	Summary string     `json:"summary"`
}

func handleFixDuplicates(_ context.Context, _ *mcp.CallToolRequest, input fixInput) (*mcp.CallToolResult, fixOutput, error) {
	if input.File == "" {
		return errResult(fmt.Errorf("file is required")), fixOutput{}, nil
	}
	mode := input.Mode
	if mode == "" {
		mode = cfg.FixMode
	}
	reg, err := loadRegistry(input.RegistryOverlay)
	if err != nil {
		return errResult(err), fixOutput{}, nil
	}

	opts := []fixer.Option{
		fixer.WithFilePath(input.File),
		fixer.WithMode(fixer.Mode(mode)),
		fixer.WithRegistry(reg),
	}
	if input.DryRun {
		opts = append(opts, fixer.WithDryRun())
	}

	result, err := fixer.FixWithOptions(opts...)
	if err != nil {
		return errResult(err), fixOutput{}, nil
	}

	output := fixOutput{
		Model:   result.Model.Name,
		Groups:  makeSlice[fixGroup](len(result.Groups)),
		Written: result.Written,
	}
	for _, g := range result.Groups {
		output.Groups = append(output.Groups, fixGroup{
			Key:         g.Key,
			Occurrences: len(g.Elements),
			Identical:   g.Identical,
		})
	}
	for _, f := range result.Fixes {
		output.Removed += f.Removed
	}
	output.Summary = fmt.Sprintf("%d duplicate group(s), %d occurrence(s) removed", len(result.Groups), output.Removed)
	return nil, output, nil
}
