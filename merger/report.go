package merger

import "fmt"

// FileReport is the per-target outcome of one merge run.
type FileReport struct {
	// Target is the canonical target filename.
	Target string `json:"target" yaml:"target"`
	// Path is the path that was (or would have been) written.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// New, Duplicate, Conflicts, and Skipped mirror the preview counts.
	New       int `json:"new" yaml:"new"`
	Duplicate int `json:"duplicate" yaml:"duplicate"`
	Conflicts int `json:"conflicts" yaml:"conflicts"`
	Skipped   int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	// Merged is the number of entries actually written.
	Merged int `json:"merged" yaml:"merged"`
	// Forced is the number of conflict groups committed by a forced policy.
	Forced int `json:"forced,omitempty" yaml:"forced,omitempty"`
	// Written reports whether the file was rewritten on disk.
	Written bool `json:"written" yaml:"written"`
	// Copied marks verbatim copies of unknown-schema files.
	Copied bool `json:"copied,omitempty" yaml:"copied,omitempty"`
	// Err is the per-file failure, nil on success.
	Err error `json:"-" yaml:"-"`
	// Error is Err rendered for structured output.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MergeReport collects the per-file outcomes of one merge run.
type MergeReport struct {
	MissionDir string       `json:"mission_dir" yaml:"mission_dir"`
	Files      []FileReport `json:"files" yaml:"files"`
}

// Failed returns the reports of files that could not be committed.
func (r *MergeReport) Failed() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// WrittenCount returns the number of files rewritten on disk.
func (r *MergeReport) WrittenCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Written {
			n++
		}
	}
	return n
}

// Summary returns a one-line human-readable digest.
func (r *MergeReport) Summary() string {
	merged := 0
	for _, f := range r.Files {
		merged += f.Merged
	}
	return fmt.Sprintf("%d file(s) written, %d entr(y/ies) merged, %d failure(s)",
		r.WrittenCount(), merged, len(r.Failed()))
}

// Finalize renders Err into the serializable Error field on every file
// report. Call before emitting the report as JSON or YAML.
func (r *MergeReport) Finalize() {
	for i := range r.Files {
		if r.Files[i].Err != nil {
			r.Files[i].Error = r.Files[i].Err.Error()
		}
	}
}
