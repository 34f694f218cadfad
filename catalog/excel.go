package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig describes the spreadsheet layout for ImportExcel
type ImportConfig struct {
	FilePath      string
	SheetName     string
	DayColumn     string
	IDColumn      string
	WordColumn    string
	MeaningColumn string
	HindiColumn   string
	StartRow      int // 1-based; rows before it are headers
}

// DefaultImportConfig returns the default spreadsheet layout
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:     "Sheet1",
		DayColumn:     "A",
		IDColumn:      "B",
		WordColumn:    "C",
		MeaningColumn: "D",
		HindiColumn:   "E",
		StartRow:      2,
	}
}

// ImportResult summarises a spreadsheet import
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportExcel reads a word spreadsheet into a catalog. Rows without a valid day
// or word are skipped and reported in the result; a blank id defaults to the
// entry's 1-based position within its day.
func ImportExcel(config ImportConfig) (*Catalog, *ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	data := make(map[string][]WordEntry)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		day, entry, err := parseRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		key := strconv.Itoa(day)
		if entry.ID == 0 {
			entry.ID = len(data[key]) + 1
		}
		data[key] = append(data[key], entry)
		result.Imported++
	}

	c, err := New(data)
	if err != nil {
		return nil, result, err
	}
	return c, result, nil
}

func parseRow(row []string, config ImportConfig) (int, WordEntry, error) {
	var entry WordEntry

	dayText := cell(row, config.DayColumn)
	day, err := strconv.Atoi(dayText)
	if err != nil || day <= 0 {
		return 0, entry, fmt.Errorf("invalid day %q", dayText)
	}

	entry.Word = cell(row, config.WordColumn)
	if entry.Word == "" {
		return 0, entry, fmt.Errorf("word is empty")
	}
	entry.Meaning = cell(row, config.MeaningColumn)
	entry.Hindi = cell(row, config.HindiColumn)

	if idText := cell(row, config.IDColumn); idText != "" {
		id, err := strconv.Atoi(idText)
		if err != nil {
			return 0, entry, fmt.Errorf("invalid id %q", idText)
		}
		entry.ID = id
	}
	return day, entry, nil
}

// cell returns the trimmed value of the named column in row, or "" when the
// row is shorter than the column.
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil || idx > len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx-1])
}
