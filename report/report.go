// Package report builds the downloadable artifact for one completed
// analysis and serializes it to JSON, CSV or XLSX.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seo-agent/backend/agent"
	"github.com/seo-agent/backend/analyzer"
	"github.com/seo-agent/backend/scraper"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Report is the export artifact: one URL, one analysis snapshot, one
// set of recommendations, stamped with an ID and a timestamp.
type Report struct {
	ID              string                 `json:"id"`
	URL             string                 `json:"url"`
	Timestamp       time.Time              `json:"timestamp"`
	Score           int                    `json:"seo_score"`
	Analysis        *analyzer.Result       `json:"analysis"`
	Recommendations *agent.Recommendations `json:"recommendations"`
}

// Build assembles a report from one analysis invocation.
func Build(page *scraper.PageData, analysis *analyzer.Result, recs *agent.Recommendations) *Report {
	return &Report{
		ID:              uuid.NewString(),
		URL:             page.URL,
		Timestamp:       time.Now(),
		Score:           analysis.Score,
		Analysis:        analysis,
		Recommendations: recs,
	}
}

// Filename suggests a download filename for the given format.
func (r *Report) Filename(format Format) string {
	return fmt.Sprintf("seo_report_%s.%s", r.Timestamp.Format("20060102_150405"), format)
}

// ContentType returns the MIME type for the given format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Export serializes the report in the requested format.
func (r *Report) Export(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return r.exportJSON()
	case FormatCSV:
		return r.exportCSV()
	case FormatXLSX:
		return r.exportXLSX()
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func (r *Report) exportJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
