package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "produtos.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadXLSXLinkColumns(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"produto", "link_magalu", "link_kabum", "observação"},
		{"Smartphone X", "https://magalu.com/p/1", "https://kabum.com.br/p/1", "nota"},
		{"Notebook Y", "", "https://kabum.com.br/p/2", ""},
		{"", "https://magalu.com/p/orfao", "", ""},
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	want := []Entry{
		{"Smartphone X", "link_magalu", "https://magalu.com/p/1"},
		{"Smartphone X", "link_kabum", "https://kabum.com.br/p/1"},
		{"Notebook Y", "link_kabum", "https://kabum.com.br/p/2"},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v, want %d", entries, len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestReadCSVFallbackURLScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produtos.csv")
	csv := "item,loja_a,loja_b\n" +
		"Fone Z,https://ex.com/fone,texto livre\n" +
		"Mouse W,sem link,https://ex.com/mouse\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	want := []Entry{
		{"Fone Z", "loja_a", "https://ex.com/fone"},
		{"Mouse W", "loja_b", "https://ex.com/mouse"},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v, want %d", entries, len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestReadUnknownNameHeaderUsesFirstColumn(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"coisa", "url"},
		{"Teclado K", "https://ex.com/teclado"},
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Produto != "Teclado K" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	if _, err := Read("produtos.txt"); err == nil {
		t.Error("want error for unsupported extension")
	}
}
