// Package loader ingests part geometry from external files: DXF drawings
// (one template per closed shape) and XLSX cut lists (one rectangular
// template per row). Both report partial failures as warnings/errors rather
// than aborting outright.
package loader

import "github.com/piwi3910/nestcore/internal/part"

// Result holds everything a load attempt produced: any templates it could
// build, plus warnings (skipped/degenerate entries) and errors (rows or
// entities that could not be parsed at all).
type Result struct {
	Templates []part.Template
	Warnings  []string
	Errors    []string
}
