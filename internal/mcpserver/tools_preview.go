package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hoangluudev/modmerge/merger"
	"github.com/hoangluudev/modmerge/scanner"
)

type previewInput struct {
	Dirs            []string `json:"dirs"                       jsonschema:"Mod directories to merge from"`
	MissionDir      string   `json:"mission_dir,omitempty"      jsonschema:"Mission directory to merge into (default MODMERGE_MISSION_DIR)"`
	IncludeUnknown  bool     `json:"include_unknown,omitempty"  jsonschema:"Route unknown-schema files to verbatim copy"`
	Skip            []string `json:"skip,omitempty"             jsonschema:"Mod folder identifiers to exclude"`
	RegistryOverlay string   `json:"registry_overlay,omitempty" jsonschema:"YAML file extending the schema registry"`
}

type previewConflictEntry struct {
	SourceMod string `json:"source_mod"`
	Signature string `json:"signature"`
}

type previewConflict struct {
	Key     string                 `json:"key"`
	Entries []previewConflictEntry `json:"entries"`
}

type previewTarget struct {
	Target     string            `json:"target"`
	TargetPath string            `json:"target_path,omitempty"`
	New        int               `json:"new"`
	Duplicate  int               `json:"duplicate"`
	Conflicts  []previewConflict `json:"conflicts,omitempty"`
}

type previewOutput struct {
	Targets    []previewTarget `json:"targets"`
	CopyFiles  []string        `json:"copy_files,omitempty"`
	Skipped    []string        `json:"skipped,omitempty"`
	Unresolved int             `json:"unresolved"`
	Summary    string          `json:"summary"`
}

func handlePreview(ctx context.Context, _ *mcp.CallToolRequest, input previewInput) (*mcp.CallToolResult, previewOutput, error) {
	preview, err := buildPreview(ctx, previewParams{
		dirs:            input.Dirs,
		missionDir:      input.MissionDir,
		includeUnknown:  input.IncludeUnknown,
		skip:            input.Skip,
		registryOverlay: input.RegistryOverlay,
	})
	if err != nil {
		return errResult(err), previewOutput{}, nil
	}

	output := previewOutput{
		Targets:    makeSlice[previewTarget](len(preview.Targets)),
		Unresolved: preview.UnresolvedCount(),
	}
	for _, name := range preview.Targets {
		result := preview.Results[name]
		pt := previewTarget{
			Target:     result.Target,
			TargetPath: result.TargetPath,
			New:        result.NewCount(),
			Duplicate:  result.DuplicateCount(),
			Conflicts:  makeSlice[previewConflict](len(result.ConflictGroups)),
		}
		for _, group := range result.ConflictGroups {
			pc := previewConflict{Key: group.Key, Entries: make([]previewConflictEntry, 0, len(group.Entries))}
			for _, e := range group.Entries {
				pc.Entries = append(pc.Entries, previewConflictEntry{
					SourceMod: e.SourceMod,
					Signature: string(e.Signature)[:12],
				})
			}
			pt.Conflicts = append(pt.Conflicts, pc)
		}
		output.Targets = append(output.Targets, pt)
	}
	for _, cf := range preview.CopyFiles {
		output.CopyFiles = append(output.CopyFiles, cf.TargetName)
	}
	for _, sk := range preview.Skipped {
		output.Skipped = append(output.Skipped, fmt.Sprintf("%s: %s", sk.Target, sk.Reason))
	}
	output.Summary = fmt.Sprintf("%d target(s), %d unresolved conflict group(s)", len(preview.Targets), output.Unresolved)
	return nil, output, nil
}

// previewParams collects the shared inputs of preview and merge.
type previewParams struct {
	dirs            []string
	missionDir      string
	includeUnknown  bool
	skip            []string
	registryOverlay string
}

func buildPreview(ctx context.Context, p previewParams) (*merger.MergePreview, error) {
	if len(p.dirs) == 0 {
		return nil, fmt.Errorf("dirs is required")
	}
	missionDir := p.missionDir
	if missionDir == "" {
		missionDir = cfg.MissionDir
	}
	if missionDir == "" {
		return nil, fmt.Errorf("mission_dir is required (or set MODMERGE_MISSION_DIR)")
	}
	reg, err := loadRegistry(p.registryOverlay)
	if err != nil {
		return nil, err
	}

	opts := []scanner.Option{scanner.WithRegistry(reg), scanner.WithSkip(p.skip...)}
	if p.includeUnknown || cfg.IncludeUnknown {
		opts = append(opts, scanner.WithIncludeUnknown())
	}
	infos, err := scanner.Scan(ctx, p.dirs, opts...)
	if err != nil {
		return nil, err
	}
	return merger.BuildPreview(ctx, missionDir, infos)
}
