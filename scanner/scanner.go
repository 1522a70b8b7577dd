package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hoangluudev/modmerge/mergeerrors"
	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

// configPattern matches every recognized configuration file beneath a mod
// directory, at any depth. The character classes make the extension match
// case-insensitive, so mixed-case names like types.Xml are picked up too.
const configPattern = "**/*.[xX][mM][lL]"

// FileStatus classifies a single scanned configuration file.
type FileStatus int

const (
	// FileMergeable resolved to a known model and carries at least one
	// identifiable entry.
	FileMergeable FileStatus = iota
	// FileEmpty resolved to a known model but contains zero entries.
	FileEmpty
	// FileUnknown matched no model by filename or root tag. Unknown files
	// are candidates for verbatim copy, never for entry extraction.
	FileUnknown
	// FileInvalid failed to parse.
	FileInvalid
)

// String returns the classification name.
func (s FileStatus) String() string {
	switch s {
	case FileMergeable:
		return "mergeable"
	case FileEmpty:
		return "empty"
	case FileUnknown:
		return "unknown"
	case FileInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// FileInfo describes one configuration file shipped by a mod.
type FileInfo struct {
	// Path is the absolute or scan-relative path to the file.
	Path string
	// Name is the base filename, as shipped.
	Name string
	// Model is the resolved schema model, nil for unknown files.
	Model *registry.ConfigModel
	// EntryCount is the number of identifiable entries the file carries.
	// Whole-document models count as one.
	EntryCount int
	// Warnings are the structured parse warnings raised while reading.
	Warnings []parser.Warning
	// Status is the classification outcome.
	Status FileStatus
	// Reason is a human-readable explanation for empty, unknown, and
	// invalid files.
	Reason string
}

// ModConfigInfo describes one mod directory's contribution to a merge run.
type ModConfigInfo struct {
	// ModID is the display-independent folder identifier.
	ModID string
	// DisplayName is the operator-facing name, falling back to ModID.
	DisplayName string
	// Dir is the scanned directory.
	Dir string
	// Files lists every classified configuration file, filesystem order.
	Files []FileInfo
	// NeedsReview marks mods that require operator attention before
	// merging, with ReviewReason explaining why.
	NeedsReview  bool
	ReviewReason string
}

// MergeableFiles returns the subset of Files classified as mergeable.
func (m *ModConfigInfo) MergeableFiles() []FileInfo {
	var out []FileInfo
	for _, f := range m.Files {
		if f.Status == FileMergeable {
			out = append(out, f)
		}
	}
	return out
}

// ProgressEvent reports incremental scan progress.
type ProgressEvent struct {
	ModID string
	Path  string
	// Index is 1-based within the current mod; Total is the number of
	// candidate files in that mod.
	Index int
	Total int
}

type config struct {
	includeUnknown bool
	skip           map[string]bool
	displayNames   map[string]string
	progress       func(ProgressEvent)
	registry       *registry.Registry
	logger         parser.Logger
}

// Option configures a scan.
type Option func(*config)

// WithIncludeUnknown lists files that match no known schema instead of
// dropping them. Unknown files are routed to verbatim copy downstream.
func WithIncludeUnknown() Option {
	return func(c *config) { c.includeUnknown = true }
}

// WithSkip excludes the given mod identifiers from the scan.
func WithSkip(modIDs ...string) Option {
	return func(c *config) {
		for _, id := range modIDs {
			c.skip[id] = true
		}
	}
}

// WithDisplayNames supplies a read-only mod-id to display-name lookup.
// The map is consulted, never mutated.
func WithDisplayNames(names map[string]string) Option {
	return func(c *config) { c.displayNames = names }
}

// WithProgress registers a callback invoked once per candidate file.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(c *config) { c.progress = fn }
}

// WithRegistry replaces the default schema registry, typically with one
// extended by a YAML overlay.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithLogger replaces the default logger.
func WithLogger(logger parser.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Scan enumerates configuration files beneath each mod directory and
// classifies them. It returns one ModConfigInfo per scanned directory, in
// argument order. Per-file parse failures are recorded on the file, never
// returned; a directory that cannot be read at all is a *mergeerrors.
// ConfigError.
func Scan(ctx context.Context, dirs []string, opts ...Option) ([]ModConfigInfo, error) {
	cfg := config{
		skip:     make(map[string]bool),
		registry: registry.Default(),
		logger:   parser.NopLogger{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	infos := make([]ModConfigInfo, 0, len(dirs))
	for _, dir := range dirs {
		modID := filepath.Base(filepath.Clean(dir))
		if cfg.skip[modID] {
			cfg.logger.Debug("skipping mod", "mod", modID)
			continue
		}
		info, err := scanMod(ctx, dir, modID, &cfg)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

func scanMod(ctx context.Context, dir, modID string, cfg *config) (*ModConfigInfo, error) {
	if st, err := os.Stat(dir); err != nil {
		return nil, &mergeerrors.ConfigError{
			Option:  "dirs",
			Value:   dir,
			Message: "mod directory is not readable",
			Cause:   err,
		}
	} else if !st.IsDir() {
		return nil, &mergeerrors.ConfigError{
			Option:  "dirs",
			Value:   dir,
			Message: "not a directory",
		}
	}

	info := &ModConfigInfo{
		ModID:       modID,
		DisplayName: modID,
		Dir:         dir,
	}
	if name, ok := cfg.displayNames[modID]; ok && name != "" {
		info.DisplayName = name
	}

	paths, err := doublestar.Glob(os.DirFS(dir), configPattern)
	if err != nil {
		return nil, &mergeerrors.ConfigError{
			Option:  "dirs",
			Value:   dir,
			Message: "enumerating configuration files",
			Cause:   err,
		}
	}
	sort.Strings(paths)

	for i, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{ModID: modID, Path: full, Index: i + 1, Total: len(paths)})
		}
		file, keep := classifyFile(full, cfg)
		if !keep {
			continue
		}
		if !info.NeedsReview {
			switch {
			case file.Status == FileEmpty:
				info.NeedsReview = true
				info.ReviewReason = fmt.Sprintf("%s matched schema %q but contains no entries", file.Name, file.Model.Name)
			case file.Status == FileMergeable && file.Reason != "":
				info.NeedsReview = true
				info.ReviewReason = file.Reason
			}
		}
		info.Files = append(info.Files, file)
	}
	return info, nil
}

// classifyFile parses and classifies a single candidate file. The second
// return is false when the file should be omitted from results entirely
// (unknown schema without WithIncludeUnknown).
func classifyFile(path string, cfg *config) (FileInfo, bool) {
	file := FileInfo{
		Path: path,
		Name: filepath.Base(path),
	}

	res, err := parser.Parse(path)
	if err != nil {
		file.Status = FileInvalid
		file.Reason = err.Error()
		cfg.logger.Warn("unparseable configuration file", "path", path, "error", err)
		return file, true
	}
	file.Warnings = res.Warnings

	rootTag := res.Root.Tag
	if rootTag == parser.SyntheticRootTag {
		// A synthetic root carries no schema signal; resolve by filename
		// or by the tag of the extracted entries.
		rootTag = ""
		if len(res.Root.Children) > 0 {
			rootTag = res.Root.Children[0].Tag
		}
	}

	model, ok := cfg.registry.Resolve(file.Name, rootTag)
	if !ok {
		if !cfg.includeUnknown {
			cfg.logger.Debug("ignoring unknown configuration file", "path", path)
			return file, false
		}
		file.Status = FileUnknown
		file.Reason = fmt.Sprintf("no schema model for filename %q or root tag %q", file.Name, res.Root.Tag)
		return file, true
	}
	file.Model = model

	// A filename match can disagree with the content: mods sometimes ship
	// one file type under another's standard name. Trust the content and
	// surface the mismatch for operator review.
	if rootTag != "" && rootTag != model.RootTag {
		if detected, found := cfg.registry.ModelForRootTag(rootTag); found && detected.Name != model.Name {
			mismatch := &mergeerrors.SchemaMismatchError{
				Path:          path,
				DetectedModel: detected.Name,
				TargetModel:   model.Name,
			}
			cfg.logger.Warn("schema mismatch", "path", path, "error", mismatch)
			model = detected
			file.Model = detected
			file.Reason = mismatch.Error()
		}
	}

	if !model.HasEntries() {
		file.Status = FileMergeable
		file.EntryCount = 1
		return file, true
	}

	entries := entryElements(res, model)
	file.EntryCount = len(entries)
	if len(entries) == 0 {
		file.Status = FileEmpty
		file.Reason = fmt.Sprintf("no %s entries found", model.PrimaryEntryTag())
		return file, true
	}
	file.Status = FileMergeable
	return file, true
}

// entryElements matches records beneath the parsed root. Fragments parsed
// under a synthetic root may hold entry elements directly at top level or
// wrapped in the model's real root tag.
func entryElements(res *parser.ParseResult, model *registry.ConfigModel) []*parser.Element {
	root := res.Root
	if root.Tag == parser.SyntheticRootTag {
		if len(root.Children) == 1 && root.Children[0].Tag == model.RootTag {
			root = root.Children[0]
		}
	}
	return model.EntryElements(root)
}
