package registry

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry is an immutable catalogue of configuration models with pure
// lookups by filename and root tag.
type Registry struct {
	byName map[string]*ConfigModel
	byRoot map[string]*ConfigModel
	order  []string
}

// New builds a Registry from the given models. Later models shadow earlier
// ones by filename; for a shared root tag the first registered model wins
// root-tag lookup (mapgroupproto.xml and mapgrouppos.xml both use "map").
func New(models ...ConfigModel) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*ConfigModel, len(models)),
		byRoot: make(map[string]*ConfigModel, len(models)),
	}
	for i := range models {
		m := models[i]
		if err := m.validate(); err != nil {
			return nil, err
		}
		m.Name = strings.ToLower(m.Name)
		if _, exists := r.byName[m.Name]; !exists {
			r.order = append(r.order, m.Name)
		}
		r.byName[m.Name] = &m
		if _, exists := r.byRoot[m.RootTag]; !exists {
			r.byRoot[m.RootTag] = &m
		}
	}
	return r, nil
}

// defaultRegistry is built once at package init from the builtin table.
var defaultRegistry = mustNew(builtinModels...)

func mustNew(models ...ConfigModel) *Registry {
	r, err := New(models...)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid builtin table: %v", err))
	}
	return r
}

// Default returns the registry of builtin configuration models.
func Default() *Registry {
	return defaultRegistry
}

// ModelForFilename returns the model registered for the given filename.
// The match is case-insensitive and ignores any directory prefix.
func (r *Registry) ModelForFilename(name string) (*ConfigModel, bool) {
	m, ok := r.byName[strings.ToLower(filepath.Base(name))]
	return m, ok
}

// ModelForRootTag returns the model registered for the given root tag.
// Used as a fallback when a mod renamed a standard file.
func (r *Registry) ModelForRootTag(tag string) (*ConfigModel, bool) {
	m, ok := r.byRoot[tag]
	return m, ok
}

// Resolve looks up a model by filename first, then by root tag.
// rootTag may be empty when the file has not been parsed yet.
func (r *Registry) Resolve(filename, rootTag string) (*ConfigModel, bool) {
	if m, ok := r.ModelForFilename(filename); ok {
		return m, true
	}
	if rootTag == "" {
		return nil, false
	}
	return r.ModelForRootTag(rootTag)
}

// Models returns all registered models in registration order.
func (r *Registry) Models() []*ConfigModel {
	out := make([]*ConfigModel, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// builtinModels is the fixed table of known target file types. Per-field
// merge rules live here as data so every strategy is handled by the closed
// MergeStrategy enum, never by a fallthrough.
var builtinModels = []ConfigModel{
	{
		Name:              "types.xml",
		RootTag:           "types",
		EntryTags:         []string{"type"},
		IdentityAttr:      "name",
		Strategy:          StrategyMergeChildren,
		MergeableChildren: []string{"usage", "value", "tag"},
	},
	{
		Name:              "cfgspawnabletypes.xml",
		RootTag:           "spawnabletypes",
		EntryTags:         []string{"type"},
		IdentityAttr:      "name",
		Strategy:          StrategyMergeChildren,
		MergeableChildren: []string{"attachments", "cargo"},
	},
	{
		Name:              "cfgrandompresets.xml",
		RootTag:           "randompresets",
		EntryTags:         []string{"cargo", "attachments"},
		IdentityAttr:      "name",
		Strategy:          StrategyMergeChildren,
		MergeableChildren: []string{"item"},
	},
	{
		Name:         "events.xml",
		RootTag:      "events",
		EntryTags:    []string{"event"},
		IdentityAttr: "name",
		Strategy:     StrategyReplace,
	},
	{
		Name:              "cfgeventspawns.xml",
		RootTag:           "eventposdef",
		EntryTags:         []string{"event"},
		IdentityAttr:      "name",
		Strategy:          StrategyMergeChildren,
		MergeableChildren: []string{"pos", "zone"},
	},
	{
		Name:         "cfgeventgroups.xml",
		RootTag:      "eventgroupdef",
		EntryTags:    []string{"group"},
		IdentityAttr: "name",
		Strategy:     StrategyReplace,
	},
	{
		Name:         "cfgignorelist.xml",
		RootTag:      "ignore",
		EntryTags:    []string{"type"},
		IdentityAttr: "name",
		Strategy:     StrategyAppend,
	},
	{
		Name:     "cfgweather.xml",
		RootTag:  "weather",
		Strategy: StrategyReplace,
	},
	{
		Name:              "cfgeconomycore.xml",
		RootTag:           "economycore",
		EntryTags:         []string{"ce"},
		IdentityAttr:      "folder",
		Strategy:          StrategyMergeChildren,
		MergeableChildren: []string{"file"},
	},
	{
		Name:     "cfgenvironment.xml",
		RootTag:  "env",
		Strategy: StrategySkip,
	},
	{
		Name:         "cfglimitsdefinitions.xml",
		RootTag:      "lists",
		EntryTags:    []string{"category", "tag", "usage", "value"},
		IdentityAttr: "name",
		Strategy:     StrategyAppend,
	},
	{
		Name:         "mapgroupproto.xml",
		RootTag:      "prototype",
		EntryTags:    []string{"group"},
		IdentityAttr: "name",
		Strategy:     StrategyReplace,
	},
	{
		Name:             "mapgrouppos.xml",
		RootTag:          "map",
		EntryTags:        []string{"group"},
		IdentityAttr:     "name",
		Strategy:         StrategyAppend,
		PositionIdentity: true,
	},
}
