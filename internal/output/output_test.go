package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"precoscan/internal/scrape"
)

func sampleRecords() []scrape.Record {
	return []scrape.Record{
		{
			Produto: "Smartphone X", URL: "https://ex.com/p", FonteColuna: "loja_a",
			Preco: "R$ 1.299,90", PrecoNum: 1299.90, PrecoNumOK: true,
			Fornecedor: "Loja Oficial", Status: "ok", DuracaoS: 2.5,
			DataColeta: "2026-08-23 10:00:00",
		},
		{Produto: "Quebrado", URL: "https://ex.com/q", Status: "erro", Erro: "FetchError: timeout"},
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saida.csv")
	if err := WriteRecords(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "produto" || rows[0][16] != "preco_fontes" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][3] != "R$ 1.299,90" || rows[1][4] != "1299.90" {
		t.Errorf("price cells = (%q, %q)", rows[1][3], rows[1][4])
	}
	if rows[2][13] != "erro" || rows[2][4] != "" {
		t.Errorf("error row = %v", rows[2])
	}
}

func TestWriteRecordsXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saida.xlsx")
	if err := WriteRecords(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "Smartphone X" || rows[1][5] != "Loja Oficial" {
		t.Errorf("data row = %v", rows[1])
	}
}

func TestWriteRecordsRejectsUnknownExtension(t *testing.T) {
	if err := WriteRecords(filepath.Join(t.TempDir(), "saida.json"), nil); err == nil {
		t.Error("want error for unsupported extension")
	}
}
