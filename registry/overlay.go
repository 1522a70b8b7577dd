package registry

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/hoangluudev/modmerge/mergeerrors"
)

// overlayFile is the YAML shape of a registry overlay document.
type overlayFile struct {
	Models []overlayModel `yaml:"models"`
}

type overlayModel struct {
	Name              string   `yaml:"name"`
	RootTag           string   `yaml:"root_tag"`
	EntryTags         []string `yaml:"entry_tags"`
	IdentityAttr      string   `yaml:"identity_attr"`
	Strategy          string   `yaml:"strategy"`
	MergeableChildren []string `yaml:"mergeable_children"`
	PositionIdentity  bool     `yaml:"position_identity"`
}

// WithOverlay returns a new Registry containing this registry's models plus
// the models defined in a YAML overlay file. Overlay entries shadow
// built-ins by filename, letting a site redefine merge rules for a standard
// file without a rebuild.
//
// Overlay format:
//
//	models:
//	  - name: customloot.xml
//	    root_tag: customloot
//	    entry_tags: [loot]
//	    identity_attr: name
//	    strategy: merge-children
//	    mergeable_children: [item]
func (r *Registry) WithOverlay(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mergeerrors.ConfigError{
			Option:  "registry-overlay",
			Value:   path,
			Message: "cannot read overlay file",
			Cause:   err,
		}
	}
	return r.withOverlayBytes(data, path)
}

func (r *Registry) withOverlayBytes(data []byte, path string) (*Registry, error) {
	var of overlayFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, &mergeerrors.ConfigError{
			Option:  "registry-overlay",
			Value:   path,
			Message: "invalid overlay YAML",
			Cause:   err,
		}
	}
	if len(of.Models) == 0 {
		return nil, &mergeerrors.ConfigError{
			Option:  "registry-overlay",
			Value:   path,
			Message: "overlay defines no models",
		}
	}

	merged := make([]ConfigModel, 0, len(r.order)+len(of.Models))
	for _, m := range r.Models() {
		merged = append(merged, *m)
	}
	for i, om := range of.Models {
		strategy, err := ParseStrategy(om.Strategy)
		if err != nil {
			return nil, &mergeerrors.ConfigError{
				Option:  "registry-overlay",
				Value:   om.Name,
				Message: fmt.Sprintf("models[%d]: %v", i, err),
			}
		}
		merged = append(merged, ConfigModel{
			Name:              om.Name,
			RootTag:           om.RootTag,
			EntryTags:         om.EntryTags,
			IdentityAttr:      om.IdentityAttr,
			Strategy:          strategy,
			MergeableChildren: om.MergeableChildren,
			PositionIdentity:  om.PositionIdentity,
		})
	}

	reg, err := New(merged...)
	if err != nil {
		return nil, &mergeerrors.ConfigError{
			Option:  "registry-overlay",
			Value:   path,
			Message: "invalid overlay model",
			Cause:   err,
		}
	}
	return reg, nil
}
