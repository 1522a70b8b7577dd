package merger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hoangluudev/modmerge/internal/fileutil"
	"github.com/hoangluudev/modmerge/mergeerrors"
	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

// ForcedPolicy names which candidate wins when the executor is told to
// commit unresolved conflicts anyway.
type ForcedPolicy int

const (
	// ForcedFirst picks the first candidate in preview order. The target's
	// existing entry sorts first, so this is the conservative default: a
	// forced commit never overwrites mission state that a mod disputes.
	ForcedFirst ForcedPolicy = iota
	// ForcedLast picks the last candidate in preview order.
	ForcedLast
)

// String returns the policy name.
func (p ForcedPolicy) String() string {
	switch p {
	case ForcedFirst:
		return "first"
	case ForcedLast:
		return "last"
	default:
		return fmt.Sprintf("ForcedPolicy(%d)", int(p))
	}
}

type execConfig struct {
	forced bool
	policy ForcedPolicy
	logger parser.Logger
}

// ExecOption configures Execute.
type ExecOption func(*execConfig)

// WithForced enables forced mode: unresolved conflict groups are committed
// using the given candidate-selection policy instead of failing. An
// explicit escape valve, never the default.
func WithForced(policy ForcedPolicy) ExecOption {
	return func(c *execConfig) {
		c.forced = true
		c.policy = policy
	}
}

// WithExecLogger replaces the default logger.
func WithExecLogger(logger parser.Logger) ExecOption {
	return func(c *execConfig) { c.logger = logger }
}

// Execute commits a finalized preview to the mission directory. Each
// target file is rewritten through a temp file and atomic rename; a target
// with unresolved conflicts fails with *mergeerrors.
// UnresolvedConflictError unless forced mode is set. Per-target failures
// are recorded in the report and joined into the returned error; targets
// already committed stay committed.
func Execute(ctx context.Context, missionDir string, preview *MergePreview, opts ...ExecOption) (*MergeReport, error) {
	cfg := execConfig{logger: parser.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	report := &MergeReport{MissionDir: missionDir}
	var errs []error

	for _, target := range preview.Targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fr := executeTarget(missionDir, preview, target, &cfg)
		report.Files = append(report.Files, fr)
		if fr.Err != nil {
			errs = append(errs, fr.Err)
		}
	}

	for _, cf := range preview.CopyFiles {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fr := copyVerbatim(missionDir, cf)
		report.Files = append(report.Files, fr)
		if fr.Err != nil {
			errs = append(errs, fr.Err)
		}
	}

	return report, errors.Join(errs...)
}

// executeTarget rewrites a single target file from its preview result.
func executeTarget(missionDir string, preview *MergePreview, target string, cfg *execConfig) FileReport {
	result := preview.Results[target]
	fr := FileReport{
		Target:    target,
		New:       result.NewCount(),
		Duplicate: result.DuplicateCount(),
		Conflicts: result.ConflictCount(),
		Skipped:   len(result.SkippedEntries),
	}

	if result.Model.Strategy == registry.StrategySkip {
		return fr
	}

	unresolved := preview.unresolvedKeys(target)
	if len(unresolved) > 0 && !cfg.forced {
		fr.Err = &mergeerrors.UnresolvedConflictError{Target: target, Keys: unresolved}
		return fr
	}

	path := result.TargetPath
	if path == "" {
		path = filepath.Join(missionDir, target)
	}
	fr.Path = path

	// Nothing to write and nothing to supersede.
	if len(result.NewEntries) == 0 && len(result.ConflictGroups) == 0 {
		return fr
	}

	root, err := destinationRoot(path, result.Model)
	if err != nil {
		fr.Err = err
		return fr
	}

	var written []*parser.Element
	superseded := make(map[string]bool)

	for _, entry := range result.NewEntries {
		written = append(written, entry.Element.Clone())
		superseded[entry.CoarseKey] = true
		markMerged(entry)
		fr.Merged++
	}
	for _, group := range result.ConflictGroups {
		res, ok := preview.Resolution(target, group.Key)
		var el *parser.Element
		switch {
		case ok:
			el = res.Element()
			for _, e := range res.Entries {
				markMerged(e)
			}
		case cfg.policy == ForcedLast:
			forced := group.Entries[len(group.Entries)-1]
			el = forced.Element
			markMerged(forced)
			fr.Forced++
		default:
			forced := group.Entries[0]
			el = forced.Element
			markMerged(forced)
			fr.Forced++
		}
		superseded[group.Key] = true
		// A forced or resolved pick of the target's own entry rewrites the
		// same content; the write still happens so the outcome is uniform.
		written = append(written, el.Clone())
		fr.Merged++
	}

	if !result.Model.HasEntries() {
		// Whole-document file types replace the root outright.
		root = written[len(written)-1]
	} else {
		root = rebuildRoot(root, result.Model, superseded, written)
	}

	data := parser.Encode(root)
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		fr.Err = &mergeerrors.WriteError{Target: path, Message: "writing merged target", Cause: err}
		fr.Merged = 0
		return fr
	}
	fr.Written = true
	cfg.logger.Info("target written", "path", path, "entries", fr.Merged)
	return fr
}

// destinationRoot parses the existing target or starts an empty document.
func destinationRoot(path string, model *registry.ConfigModel) (*parser.Element, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &parser.Element{Tag: model.RootTag}, nil
		}
		return nil, &mergeerrors.WriteError{Target: path, Message: "checking destination", Cause: err}
	}
	doc, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}
	root := doc.Root
	switch {
	case root.Tag == parser.SyntheticRootTag:
		root = &parser.Element{Tag: model.RootTag, Children: root.Children}
	case root.Tag != model.RootTag && model.IsEntryTag(root.Tag):
		root = &parser.Element{Tag: model.RootTag, Children: []*parser.Element{root}}
	}
	return root, nil
}

// rebuildRoot removes superseded entries from the existing tree and
// appends the written elements at the top level of the root. Wrapper
// containers (list files) are pruned in place.
func rebuildRoot(root *parser.Element, model *registry.ConfigModel, superseded map[string]bool, written []*parser.Element) *parser.Element {
	out := &parser.Element{Tag: root.Tag, Attrs: root.Attrs, Text: root.Text}
	for _, child := range root.Children {
		if model.IsEntryTag(child.Tag) {
			if superseded[CoarseKey(model, child)] {
				continue
			}
			out.Children = append(out.Children, child)
			continue
		}
		kept := &parser.Element{Tag: child.Tag, Attrs: child.Attrs, Text: child.Text}
		for _, sub := range child.Children {
			if model.IsEntryTag(sub.Tag) && superseded[CoarseKey(model, sub)] {
				continue
			}
			kept.Children = append(kept.Children, sub)
		}
		out.Children = append(out.Children, kept)
	}
	out.Children = append(out.Children, written...)
	return out
}

func markMerged(e *ConfigEntry) {
	if e.SourceMod != TargetSource {
		e.Status = StatusMerged
	}
}

// copyVerbatim copies an unknown-schema file into the mission byte for
// byte, through the same atomic write used for merged targets.
func copyVerbatim(missionDir string, cf CopyFile) FileReport {
	fr := FileReport{
		Target: cf.TargetName,
		Path:   filepath.Join(missionDir, cf.TargetName),
		Copied: true,
	}
	data, err := os.ReadFile(cf.SourcePath)
	if err != nil {
		fr.Copied = false
		fr.Err = &mergeerrors.WriteError{Target: fr.Path, Message: "reading copy source", Cause: err}
		return fr
	}
	if err := fileutil.WriteFileAtomic(fr.Path, data); err != nil {
		fr.Copied = false
		fr.Err = &mergeerrors.WriteError{Target: fr.Path, Message: "copying file", Cause: err}
		return fr
	}
	fr.Written = true
	return fr
}
