package roster

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadResult reports how a spreadsheet roster load went. Skipped counts rows
// that were present but carried no usable address.
type LoadResult struct {
	Recipients []Recipient
	TotalRows  int
	Skipped    int
}

// LoadExcel reads recipients from the first sheet of an Excel workbook.
// The header row must contain an "Email" column; a "Name" column is
// optional. Rows with a missing or invalid address are skipped with a
// warning and counted, matching how a hand-maintained contact sheet is
// usually full of holes.
func LoadExcel(path string, c Campaign) (*LoadResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	emailCol, nameCol := headerColumns(rows[0])
	if emailCol < 0 {
		return nil, fmt.Errorf("sheet %s has no Email column", sheets[0])
	}

	result := &LoadResult{TotalRows: len(rows) - 1}
	for i, row := range rows[1:] {
		address := cell(row, emailCol)
		if address == "" {
			slog.Warn("skipping roster row with no address", "row", i+2)
			result.Skipped++
			continue
		}

		r, err := New(address, cell(row, nameCol), c)
		if err != nil {
			slog.Warn("skipping roster row", "row", i+2, "error", err)
			result.Skipped++
			continue
		}
		result.Recipients = append(result.Recipients, r)
	}

	slog.Info("loaded recipient roster",
		"path", path,
		"rows", result.TotalRows,
		"recipients", len(result.Recipients),
		"skipped", result.Skipped,
	)
	return result, nil
}

// headerColumns locates the Email and Name columns in the header row.
// Matching is case-insensitive. Returns -1 for a column that is absent.
func headerColumns(header []string) (emailCol, nameCol int) {
	emailCol, nameCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			emailCol = i
		case "name":
			nameCol = i
		}
	}
	return emailCol, nameCol
}

// cell returns the trimmed cell value at col, tolerating short rows.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
