package view

import "github.com/starford/wunjo/internal/query"

// DefaultExcludeFolder is scanned out unless a view names its own folders.
const DefaultExcludeFolder = "_scripts"

// Config describes one mentions table.
type Config struct {
	// Subject is a document identity or a #tag. Empty means the current document.
	Subject string `json:"subject,omitempty" yaml:"subject"`

	// Current is the path of the document the table is rendered in.
	Current string `json:"current,omitempty" yaml:"current"`

	// Columns are metadata fields promoted into their own columns.
	Columns []string `json:"columns,omitempty" yaml:"columns"`

	// ExcludeFolders are left out of the scan.
	ExcludeFolders []string `json:"exclude_folders,omitempty" yaml:"exclude_folders"`

	// ExcludeCurrent leaves the current document out of the scan.
	ExcludeCurrent bool `json:"exclude_current,omitempty" yaml:"exclude_current"`

	// HideKeys are metadata fields never shown.
	HideKeys []string `json:"hide_keys,omitempty" yaml:"hide_keys"`

	// Debug traces every decision of the pass.
	Debug bool `json:"debug,omitempty" yaml:"debug"`
}

// Filter returns the document filter for the pass. current is the resolved
// path of the current document, if any.
func (c Config) Filter(current string) query.Filter {
	f := query.Filter{ExcludeFolders: c.ExcludeFolders}
	if f.ExcludeFolders == nil {
		f.ExcludeFolders = []string{DefaultExcludeFolder}
	}
	if c.ExcludeCurrent {
		f.ExcludePath = current
	}
	return f
}
