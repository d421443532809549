package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// csvHeader is the column order shared by the CSV and XLSX exports.
var csvHeader = []string{"index", "name", "url", "category", "message", "status_code", "final_url", "title"}

// WriteJSON writes every entry as a formatted JSON array sorted by index.
func WriteJSON(w io.Writer, buckets Buckets) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buckets.All()); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes every entry as CSV sorted by index.
// Always includes a header row, even if there are no entries.
func WriteCSV(w io.Writer, buckets Buckets) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range buckets.All() {
		if err := cw.Write(entryRecord(entry)); err != nil {
			return fmt.Errorf("write csv record for #%d: %w", entry.Index, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a Summary sheet and one sheet per
// non-empty category.
func WriteXLSX(w io.Writer, buckets Buckets) (err error) {
	book := excelize.NewFile()
	defer func() {
		if closeErr := book.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()

	const summary = "Summary"
	if err := book.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := book.SetSheetRow(summary, "A1", &[]any{"category", "count"}); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for i, cat := range Categories {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
		if cellErr != nil {
			return fmt.Errorf("summary cell: %w", cellErr)
		}
		if err := book.SetSheetRow(summary, cell, &[]any{FormatCategory(cat), buckets.Count(cat)}); err != nil {
			return fmt.Errorf("write summary row for %s: %w", cat, err)
		}
	}

	for _, cat := range Categories {
		entries := buckets[cat]
		if len(entries) == 0 {
			continue
		}
		sheet := string(cat)
		if _, err := book.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		header := make([]any, len(csvHeader))
		for i, h := range csvHeader {
			header[i] = h
		}
		if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("write %s header: %w", sheet, err)
		}
		for i, entry := range entries {
			cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
			if cellErr != nil {
				return fmt.Errorf("%s cell: %w", sheet, cellErr)
			}
			row := []any{
				entry.Index, entry.Name, entry.URL, string(entry.Category),
				entry.Message, entry.StatusCode, entry.FinalURL, entry.Title,
			}
			if err := book.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("write %s row for #%d: %w", sheet, entry.Index, err)
			}
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("write xlsx output: %w", err)
	}
	return nil
}

func entryRecord(entry Entry) []string {
	return []string{
		strconv.Itoa(entry.Index),
		entry.Name,
		entry.URL,
		string(entry.Category),
		entry.Message,
		statusCodeStr(entry.StatusCode),
		entry.FinalURL,
		entry.Title,
	}
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
