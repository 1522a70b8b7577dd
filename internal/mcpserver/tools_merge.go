package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hoangluudev/modmerge/merger"
)

type mergeInput struct {
	Dirs            []string `json:"dirs"                       jsonschema:"Mod directories to merge from"`
	MissionDir      string   `json:"mission_dir,omitempty"      jsonschema:"Mission directory to merge into (default MODMERGE_MISSION_DIR)"`
	Resolve         string   `json:"resolve,omitempty"          jsonschema:"Conflict policy: first\\, last\\, or fail (default fail)"`
	Force           bool     `json:"force,omitempty"            jsonschema:"Commit unresolved conflicts using the resolve policy instead of failing"`
	IncludeUnknown  bool     `json:"include_unknown,omitempty"  jsonschema:"Copy unknown-schema files into the mission verbatim"`
	Skip            []string `json:"skip,omitempty"             jsonschema:"Mod folder identifiers to exclude"`
	RegistryOverlay string   `json:"registry_overlay,omitempty" jsonschema:"YAML file extending the schema registry"`
}

type mergeFile struct {
	Target    string `json:"target"`
	Path      string `json:"path,omitempty"`
	New       int    `json:"new"`
	Duplicate int    `json:"duplicate"`
	Conflicts int    `json:"conflicts"`
	Merged    int    `json:"merged"`
	Forced    int    `json:"forced,omitempty"`
	Written   bool   `json:"written"`
	Copied    bool   `json:"copied,omitempty"`
	Error     string `json:"error,omitempty"`
}

type mergeOutput struct {
	Files   []mergeFile `json:"files"`
	Written int         `json:"written"`
	Failed  int         `json:"failed"`
	Summary string      `json:"summary"`
}

func handleMerge(ctx context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	preview, err := buildPreview(ctx, previewParams{
		dirs:            input.Dirs,
		missionDir:      input.MissionDir,
		includeUnknown:  input.IncludeUnknown,
		skip:            input.Skip,
		registryOverlay: input.RegistryOverlay,
	})
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	var execOpts []merger.ExecOption
	res := merger.NewResolver(preview)
	switch input.Resolve {
	case "", "fail":
	case "first":
		if err := res.AutoResolveFirstEntry(); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	case "last":
		if err := res.AutoResolveLastEntry(); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	default:
		return errResult(fmt.Errorf("invalid resolve policy %q (valid: first, last, fail)", input.Resolve)), mergeOutput{}, nil
	}
	if input.Force {
		policy := merger.ForcedFirst
		if input.Resolve == "last" {
			policy = merger.ForcedLast
		}
		execOpts = append(execOpts, merger.WithForced(policy))
	}

	report, execErr := merger.Execute(ctx, preview.MissionDir, preview, execOpts...)
	if report == nil {
		return errResult(execErr), mergeOutput{}, nil
	}
	report.Finalize()

	output := mergeOutput{
		Files:   makeSlice[mergeFile](len(report.Files)),
		Written: report.WrittenCount(),
		Failed:  len(report.Failed()),
		Summary: report.Summary(),
	}
	for _, f := range report.Files {
		output.Files = append(output.Files, mergeFile{
			Target:    f.Target,
			Path:      f.Path,
			New:       f.New,
			Duplicate: f.Duplicate,
			Conflicts: f.Conflicts,
			Merged:    f.Merged,
			Forced:    f.Forced,
			Written:   f.Written,
			Copied:    f.Copied,
			Error:     f.Error,
		})
	}
	// Per-file failures are already itemized in the output; the joined
	// error would only repeat them.
	return nil, output, nil
}
