package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/scanner"
)

type scanInput struct {
	Dirs            []string `json:"dirs"                       jsonschema:"Mod directories to scan"`
	IncludeUnknown  bool     `json:"include_unknown,omitempty"  jsonschema:"List files with no schema model (candidates for verbatim copy)"`
	Skip            []string `json:"skip,omitempty"             jsonschema:"Mod folder identifiers to exclude"`
	RegistryOverlay string   `json:"registry_overlay,omitempty" jsonschema:"YAML file extending the schema registry"`
}

type scanFile struct {
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Model      string   `json:"model,omitempty"`
	Status     string   `json:"status"`
	EntryCount int      `json:"entry_count,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

type scanMod struct {
	ModID        string     `json:"mod_id"`
	DisplayName  string     `json:"display_name,omitempty"`
	NeedsReview  bool       `json:"needs_review,omitempty"`
	ReviewReason string     `json:"review_reason,omitempty"`
	Files        []scanFile `json:"files,omitempty"`
}

type scanOutput struct {
	Mods    []scanMod `json:"mods"`
	Summary string    `json:"summary"`
}

func handleScan(ctx context.Context, _ *mcp.CallToolRequest, input scanInput) (*mcp.CallToolResult, scanOutput, error) {
	if len(input.Dirs) == 0 {
		return errResult(fmt.Errorf("dirs is required")), scanOutput{}, nil
	}
	reg, err := loadRegistry(input.RegistryOverlay)
	if err != nil {
		return errResult(err), scanOutput{}, nil
	}

	opts := []scanner.Option{scanner.WithRegistry(reg), scanner.WithSkip(input.Skip...)}
	if input.IncludeUnknown || cfg.IncludeUnknown {
		opts = append(opts, scanner.WithIncludeUnknown())
	}

	infos, err := scanner.Scan(ctx, input.Dirs, opts...)
	if err != nil {
		return errResult(err), scanOutput{}, nil
	}

	output := scanOutput{Mods: makeSlice[scanMod](len(infos))}
	files := 0
	for _, info := range infos {
		mod := scanMod{
			ModID:        info.ModID,
			NeedsReview:  info.NeedsReview,
			ReviewReason: info.ReviewReason,
			Files:        makeSlice[scanFile](len(info.Files)),
		}
		if info.DisplayName != info.ModID {
			mod.DisplayName = info.DisplayName
		}
		for _, f := range info.Files {
			sf := scanFile{
				Path:       f.Path,
				Name:       f.Name,
				Status:     f.Status.String(),
				EntryCount: f.EntryCount,
				Reason:     f.Reason,
			}
			if f.Model != nil {
				sf.Model = f.Model.Name
			}
			sf.Warnings = parser.WarningStrings(f.Warnings)
			mod.Files = append(mod.Files, sf)
			files++
		}
		output.Mods = append(output.Mods, mod)
	}
	output.Summary = fmt.Sprintf("%d mod(s) scanned, %d configuration file(s) classified", len(infos), files)
	return nil, output, nil
}
