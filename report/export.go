package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// exportCSV writes the report as section/name/value rows.
func (r *Report) exportCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "name", "value"},
		{"report", "id", r.ID},
		{"report", "url", r.URL},
		{"report", "timestamp", r.Timestamp.Format("2006-01-02 15:04:05")},
		{"report", "seo_score", strconv.Itoa(r.Score)},
		{"metrics", "word_count", strconv.Itoa(r.Analysis.BasicMetrics.WordCount)},
		{"metrics", "title_length", strconv.Itoa(r.Analysis.BasicMetrics.TitleLength)},
		{"metrics", "description_length", strconv.Itoa(r.Analysis.BasicMetrics.DescriptionLength)},
		{"metrics", "image_count", strconv.Itoa(r.Analysis.BasicMetrics.ImageCount)},
		{"metrics", "link_count", strconv.Itoa(r.Analysis.BasicMetrics.LinkCount)},
		{"metrics", "response_time", fmt.Sprintf("%.2f", r.Analysis.BasicMetrics.ResponseTime)},
	}

	for _, category := range r.Analysis.Categories() {
		for _, issue := range category.Issues {
			rows = append(rows, []string{"issue", category.Key, issue})
		}
	}

	if r.Recommendations != nil {
		for _, rec := range r.Recommendations.Recommendations {
			rows = append(rows, []string{"recommendation", rec.Priority, rec.Title + ": " + rec.Description})
		}
		for _, win := range r.Recommendations.QuickWins {
			rows = append(rows, []string{"quick_win", "", win})
		}
		for _, strategy := range r.Recommendations.LongTermStrategies {
			rows = append(rows, []string{"long_term_strategy", "", strategy})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// exportXLSX writes the report as a workbook with Summary, Issues and
// Recommendations sheets.
func (r *Report) exportXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"URL", r.URL},
		{"Report ID", r.ID},
		{"Timestamp", r.Timestamp.Format("2006-01-02 15:04:05")},
		{"SEO Score", r.Score},
		{"Word Count", r.Analysis.BasicMetrics.WordCount},
		{"Title Length", r.Analysis.BasicMetrics.TitleLength},
		{"Description Length", r.Analysis.BasicMetrics.DescriptionLength},
		{"Images", r.Analysis.BasicMetrics.ImageCount},
		{"Links", r.Analysis.BasicMetrics.LinkCount},
		{"Response Time (s)", r.Analysis.BasicMetrics.ResponseTime},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const issuesSheet = "Issues"
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return nil, err
	}
	issueRows := [][]interface{}{{"Category", "Issue"}}
	for _, category := range r.Analysis.Categories() {
		for _, issue := range category.Issues {
			issueRows = append(issueRows, []interface{}{category.Key, issue})
		}
	}
	for i, row := range issueRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(issuesSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const recsSheet = "Recommendations"
	if _, err := f.NewSheet(recsSheet); err != nil {
		return nil, err
	}
	recRows := [][]interface{}{{"Priority", "Title", "Description"}}
	if r.Recommendations != nil {
		for _, rec := range r.Recommendations.Recommendations {
			recRows = append(recRows, []interface{}{rec.Priority, rec.Title, rec.Description})
		}
		for _, win := range r.Recommendations.QuickWins {
			recRows = append(recRows, []interface{}{"quick win", win, ""})
		}
		for _, strategy := range r.Recommendations.LongTermStrategies {
			recRows = append(recRows, []interface{}{"long term", strategy, ""})
		}
	}
	for i, row := range recRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(recsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
