package merger

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
	"github.com/hoangluudev/modmerge/scanner"
)

// ConflictGroup is one coarse-key group whose candidates disagree
// structurally. Entries appear in preview order: the target's existing
// entry first when present, then mod entries in scan order.
type ConflictGroup struct {
	Key     string
	Entries []*ConfigEntry
}

// MergeResult is the classification of all candidates for one target file.
type MergeResult struct {
	// Target is the canonical target filename (the model name).
	Target string
	// TargetPath is the resolved path inside the mission, empty when the
	// file does not exist yet.
	TargetPath string
	// Model is the schema model governing the file.
	Model *registry.ConfigModel
	// NewEntries have no same-key match anywhere and will be appended.
	NewEntries []*ConfigEntry
	// DuplicateEntries are one representative per all-identical group;
	// nothing is written for them.
	DuplicateEntries []*ConfigEntry
	// SkippedEntries are candidates for skip-strategy file types.
	SkippedEntries []*ConfigEntry
	// ConflictGroups lists unresolved disagreements in first-seen order.
	ConflictGroups []*ConflictGroup
}

// NewCount returns the number of entries classified new.
func (r *MergeResult) NewCount() int { return len(r.NewEntries) }

// DuplicateCount returns the number of duplicate representatives.
func (r *MergeResult) DuplicateCount() int { return len(r.DuplicateEntries) }

// ConflictCount returns the number of conflict groups.
func (r *MergeResult) ConflictCount() int { return len(r.ConflictGroups) }

// Group returns the conflict group with the given key, or nil.
func (r *MergeResult) Group(key string) *ConflictGroup {
	for _, g := range r.ConflictGroups {
		if g.Key == key {
			return g
		}
	}
	return nil
}

// CopyFile is an unknown-schema file routed to verbatim copy.
type CopyFile struct {
	SourcePath string
	SourceMod  string
	TargetName string
}

// SkippedTarget records a target file the preview could not classify,
// typically because the mission's existing file failed to parse.
type SkippedTarget struct {
	Target string
	Reason string
}

// MergePreview is the full classification for one merge run. It is created
// by BuildPreview, mutated only through a Resolver, and consumed exactly
// once by Execute.
type MergePreview struct {
	// MissionDir is the mission the preview was computed against.
	MissionDir string
	// Targets lists target filenames in stable first-seen order.
	Targets []string
	// Results maps target filename to its classification.
	Results map[string]*MergeResult
	// CopyFiles lists unknown-schema files to copy verbatim.
	CopyFiles []CopyFile
	// Skipped lists targets excluded from the run, with reasons.
	Skipped []SkippedTarget

	// resolutions maps target filename to coarse key to the operator's
	// chosen resolution. Only the Resolver writes here.
	resolutions map[string]map[string]*Resolution
}

// Resolution lookup for one conflict group. The second return is false
// when the group is unresolved.
func (p *MergePreview) Resolution(target, key string) (*Resolution, bool) {
	res, ok := p.resolutions[target][key]
	return res, ok
}

// UnresolvedCount returns the number of conflict groups without a
// resolution across all targets.
func (p *MergePreview) UnresolvedCount() int {
	n := 0
	for _, target := range p.Targets {
		for _, g := range p.Results[target].ConflictGroups {
			if _, ok := p.Resolution(target, g.Key); !ok {
				n++
			}
		}
	}
	return n
}

// unresolvedKeys returns the unresolved conflict keys for one target, in
// group order.
func (p *MergePreview) unresolvedKeys(target string) []string {
	var keys []string
	for _, g := range p.Results[target].ConflictGroups {
		if _, ok := p.Resolution(target, g.Key); !ok {
			keys = append(keys, g.Key)
		}
	}
	return keys
}

// Preview classifies candidate entries for a single target file. The
// target's existing entries (when target is non-nil) participate as
// implicit candidates sourced from TargetSource. Preview is pure: it reads
// nothing from disk and assigning statuses on the passed entries is its
// only side effect.
func Preview(target *parser.ParseResult, model *registry.ConfigModel, candidates []*ConfigEntry) *MergeResult {
	result := &MergeResult{
		Target: model.Name,
		Model:  model,
	}

	if model.Strategy == registry.StrategySkip {
		for _, e := range candidates {
			e.Status = StatusSkipped
		}
		result.SkippedEntries = candidates
		return result
	}

	var all []*ConfigEntry
	targetKeys := make(map[string]bool)
	if target != nil {
		for _, e := range ExtractEntries(target, model, TargetSource) {
			targetKeys[e.CoarseKey] = true
			all = append(all, e)
		}
	}
	all = append(all, candidates...)

	groups := make(map[string][]*ConfigEntry)
	var order []string
	for _, e := range all {
		if _, seen := groups[e.CoarseKey]; !seen {
			order = append(order, e.CoarseKey)
		}
		groups[e.CoarseKey] = append(groups[e.CoarseKey], e)
	}

	for _, key := range order {
		group := groups[key]
		fromTarget := targetKeys[key]

		// Groups containing only the target's own entries are untouched
		// mission state, not candidates.
		modEntries := 0
		for _, e := range group {
			if e.SourceMod != TargetSource {
				modEntries++
			}
		}
		if modEntries == 0 {
			continue
		}

		identical := true
		for _, e := range group[1:] {
			if e.Signature != group[0].Signature {
				identical = false
				break
			}
		}

		switch {
		case identical && len(group) == 1 && !fromTarget:
			group[0].Status = StatusNew
			result.NewEntries = append(result.NewEntries, group[0])
		case identical:
			// Re-shipped or multiply-shipped identical content needs no
			// write; one representative is reported.
			rep := group[0]
			for _, e := range group {
				e.Status = StatusDuplicate
				if e.SourceMod != TargetSource && rep.SourceMod == TargetSource {
					rep = e
				}
			}
			result.DuplicateEntries = append(result.DuplicateEntries, rep)
		default:
			for _, e := range group {
				e.Status = StatusConflict
			}
			result.ConflictGroups = append(result.ConflictGroups, &ConflictGroup{
				Key:     key,
				Entries: group,
			})
		}
	}
	return result
}

// PreviewOption configures BuildPreview.
type PreviewOption func(*previewConfig)

type previewConfig struct {
	logger parser.Logger
}

// WithPreviewLogger replaces the default logger.
func WithPreviewLogger(logger parser.Logger) PreviewOption {
	return func(c *previewConfig) { c.logger = logger }
}

// BuildPreview computes the full merge preview for a set of scanned mods
// against a mission directory. Mergeable files are re-parsed and their
// entries grouped per canonical target filename; unknown-schema files
// become verbatim copies. Targets whose existing mission file cannot be
// parsed are skipped with a reason rather than failing the run.
func BuildPreview(ctx context.Context, missionDir string, infos []scanner.ModConfigInfo, opts ...PreviewOption) (*MergePreview, error) {
	cfg := previewConfig{logger: parser.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	preview := &MergePreview{
		MissionDir:  missionDir,
		Results:     make(map[string]*MergeResult),
		resolutions: make(map[string]map[string]*Resolution),
	}

	// Candidate entries per canonical target filename, in scan order.
	candidates := make(map[string][]*ConfigEntry)
	models := make(map[string]*registry.ConfigModel)
	var order []string

	for _, info := range infos {
		for _, file := range info.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			switch file.Status {
			case scanner.FileUnknown:
				preview.CopyFiles = append(preview.CopyFiles, CopyFile{
					SourcePath: file.Path,
					SourceMod:  info.ModID,
					TargetName: file.Name,
				})
				continue
			case scanner.FileMergeable:
			default:
				continue
			}

			res, err := parser.Parse(file.Path)
			if err != nil {
				// Validated during scan but may have changed since.
				cfg.logger.Warn("candidate file no longer parseable", "path", file.Path, "error", err)
				continue
			}
			name := file.Model.Name
			if _, seen := models[name]; !seen {
				models[name] = file.Model
				order = append(order, name)
			}
			candidates[name] = append(candidates[name], ExtractEntries(res, file.Model, info.ModID)...)
		}
	}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		model := models[name]

		targetPath, found := findTargetFile(missionDir, name)
		var targetDoc *parser.ParseResult
		if found {
			doc, err := parser.Parse(targetPath)
			if err != nil {
				cfg.logger.Warn("unparseable mission target", "path", targetPath, "error", err)
				preview.Skipped = append(preview.Skipped, SkippedTarget{
					Target: name,
					Reason: err.Error(),
				})
				continue
			}
			targetDoc = doc
		}

		result := Preview(targetDoc, model, candidates[name])
		result.TargetPath = targetPath
		if !found {
			result.TargetPath = ""
		}
		preview.Targets = append(preview.Targets, name)
		preview.Results[name] = result
	}
	return preview, nil
}

// findTargetFile locates an existing target file anywhere beneath the
// mission directory. Mission layouts scatter known filenames across
// subdirectories (db/, env/), so the whole tree is searched; the first
// match in lexical walk order wins.
func findTargetFile(missionDir, name string) (string, bool) {
	matches, err := doublestar.Glob(os.DirFS(missionDir), "**/"+name)
	if err != nil || len(matches) == 0 {
		return filepath.Join(missionDir, name), false
	}
	return filepath.Join(missionDir, filepath.FromSlash(matches[0])), true
}
