// package formatter provides functions to export upload history and lesson
// manifests to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rpaulsen/lectern/internal/models"
	"github.com/rpaulsen/lectern/internal/shared"
)

// ExportToCSV converts upload history records to CSV format with columns:
// ID, Lesson, Title, Category, File, Size, URL
func ExportToCSV(records []*models.UploadRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Lesson", "Title", "Category", "File", "Size", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.RecordID,
			rec.LessonID,
			rec.Title,
			rec.Category.String(),
			rec.FileName,
			strconv.FormatInt(rec.Size, 10),
			rec.FileURL,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a lesson and its content items to a Markdown
// manifest, grouped by category.
func ExportToMarkdown(lesson models.Lesson, contents []models.ContentItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", lesson.Name))
	buf.WriteString(fmt.Sprintf("**Content items**: %d\n\n", len(contents)))

	byCategory := map[models.ContentCategory][]models.ContentItem{}
	for _, item := range contents {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range models.Categories() {
		items := byCategory[category]
		if len(items) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", category))
		for i, item := range items {
			size := shared.FormatBytes(item.Size)
			if item.FileURL != "" {
				buf.WriteString(fmt.Sprintf("%d. [%s](%s) [%s]\n", i+1, item.Title, item.FileURL, size))
			} else {
				buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, item.Title, size))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts upload history records to plain text format
func ExportToText(records []*models.UploadRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Uploads: %d\n\n", len(records)))
	for i, rec := range records {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s → lesson %s (%s)\n",
			i+1, rec.Category, rec.Title, rec.LessonID, shared.FormatBytes(rec.Size)))
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	RecordsFile string
	SummaryFile string
}

// historySummary is the sidecar metadata written next to a CSV export.
type historySummary struct {
	Total      int                            `json:"total"`
	TotalBytes int64                          `json:"totalBytes"`
	ByCategory map[models.ContentCategory]int `json:"byCategory"`
}

// WriteCSVExport exports upload history to CSV with an accompanying summary
// JSON file.
//
// Defaults to "uploads" as the base filename & creates {base}_history.csv and
// {base}_summary.json
func WriteCSVExport(records []*models.UploadRecord, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "uploads"
	}

	csvData, err := ExportToCSV(records)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	recordsFile := baseFilepath + "_history.csv"
	if err := os.WriteFile(recordsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summary := historySummary{
		Total:      len(records),
		ByCategory: map[models.ContentCategory]int{},
	}
	for _, rec := range records {
		summary.TotalBytes += rec.Size
		summary.ByCategory[rec.Category]++
	}

	summaryJSON, err := shared.MarshalJSON(summary, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		RecordsFile: recordsFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport exports a lesson manifest to Markdown in a dedicated
// directory.
//
// Directory name defaults to the lesson ID. Creates {dir}/README.md.
func WriteMarkdownExport(lesson models.Lesson, contents []models.ContentItem, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = lesson.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(lesson, contents)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports upload history to plain text format.
//
// Defaults to "uploads.txt" as the filename.
func WriteTextExport(records []*models.UploadRecord, filepath string) (string, error) {
	if filepath == "" {
		filepath = "uploads.txt"
	}

	textData, err := ExportToText(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
