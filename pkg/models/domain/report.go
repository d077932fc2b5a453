package domain

import (
	"fmt"
	"maps"
	"slices"
)

// VersionReport maps every foundation to the versions it runs and every product to the
// latest version found in the catalog
type VersionReport struct {
	// Foundations keeps column order
	Foundations []string
	Installed   map[string]map[string]string
	Latest      map[string]string
}

// ReportRow is one rendered product line
type ReportRow struct {
	Label string
	Cells []string
}

func NewVersionReport() *VersionReport {
	return &VersionReport{
		Installed: make(map[string]map[string]string),
		Latest:    make(map[string]string),
	}
}

// AddFoundation registers a column; adding the same name twice is a no-op
func (r *VersionReport) AddFoundation(name string) {
	if _, ok := r.Installed[name]; ok {
		return
	}
	r.Foundations = append(r.Foundations, name)
	r.Installed[name] = make(map[string]string)
}

func (r *VersionReport) SetInstalled(foundation, productID, version string) {
	r.AddFoundation(foundation)
	r.Installed[foundation][productID] = version
}

// ProductIDs returns the catalog-resolved product identifiers in lexicographic order
func (r *VersionReport) ProductIDs() []string {
	return slices.Sorted(maps.Keys(r.Latest))
}

func (r *VersionReport) Rows() []ReportRow {
	ids := r.ProductIDs()
	rows := make([]ReportRow, 0, len(ids))
	for _, id := range ids {
		row := ReportRow{
			Label: fmt.Sprintf("%s (%s)", id, r.Latest[id]),
			Cells: make([]string, 0, len(r.Foundations)),
		}
		for _, f := range r.Foundations {
			version, ok := r.Installed[f][id]
			if !ok {
				version = Placeholder
			}
			row.Cells = append(row.Cells, version)
		}
		rows = append(rows, row)
	}
	return rows
}
