// Package input reads the product spreadsheet that drives a scrape batch:
// one row per product, one or more columns of store links.
package input

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"precoscan/pkg/brl"
)

// Entry is one (product, store link) pair; a spreadsheet row with three link
// columns yields three entries.
type Entry struct {
	Produto     string
	FonteColuna string
	URL         string
}

// nameHeaders are accepted product-name column titles, checked in order.
var nameHeaders = []string{"nome", "produto", "product", "item", "descricao", "descrição"}

// Read loads entries from an .xlsx or .csv file, dispatching on extension.
func Read(path string) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

func readXLSX(path string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return buildEntries(rows)
}

func readCSV(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1 // rows may be ragged
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return buildEntries(rows)
}

func buildEntries(rows [][]string) ([]Entry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	header := rows[0]

	nameIdx := findNameColumn(header)
	linkIdx := findLinkColumns(header)

	var entries []Entry
	for _, row := range rows[1:] {
		name := brl.CleanText(cell(row, nameIdx))
		if name == "" {
			continue
		}

		if len(linkIdx) > 0 {
			for _, i := range linkIdx {
				if u := brl.CleanText(cell(row, i)); isHTTP(u) {
					entries = append(entries, Entry{Produto: name, FonteColuna: headerName(header, i), URL: u})
				}
			}
			continue
		}

		// No declared link columns: scan every other cell for a URL.
		for i := range row {
			if i == nameIdx {
				continue
			}
			if u := brl.CleanText(row[i]); isHTTP(u) {
				entries = append(entries, Entry{Produto: name, FonteColuna: headerName(header, i), URL: u})
			}
		}
	}
	return entries, nil
}

func findNameColumn(header []string) int {
	for _, want := range nameHeaders {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
	}
	return 0
}

func findLinkColumns(header []string) []int {
	var idx []int
	for i, h := range header {
		low := strings.ToLower(h)
		if strings.Contains(low, "link") || strings.Contains(low, "url") {
			idx = append(idx, i)
		}
	}
	return idx
}

func headerName(header []string, i int) string {
	if i < len(header) && strings.TrimSpace(header[i]) != "" {
		return strings.TrimSpace(header[i])
	}
	return fmt.Sprintf("coluna_%d", i+1)
}

// cell tolerates short rows; spreadsheet readers trim trailing empties.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
