package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"precoscan/internal/sites"
)

const okPage = `<html><head><script type="application/ld+json">
{"@type":"Product","offers":{"price":"1299.90","seller":{"name":"Loja Oficial"}}}
</script></head><body></body></html>`

type fakeFetcher struct {
	pages    map[string]string
	failures map[string]int
	restarts int
}

func (f *fakeFetcher) FetchPage(_ context.Context, url, _ string) (string, error) {
	if f.failures[url] > 0 {
		f.failures[url]--
		return "", errors.New("connection reset")
	}
	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("no such page")
	}
	return page, nil
}

func (f *fakeFetcher) Restart() error { f.restarts++; return nil }
func (f *fakeFetcher) Close()         {}

func newTestWorker(f Fetcher, retries int) *Worker {
	w := NewWorker(f, sites.Default(), Options{
		CEP:      "14401-426",
		PaceBase: time.Millisecond,
		Retries:  retries,
	})
	w.sleep = func(context.Context, time.Duration) error { return nil }
	return w
}

func TestWorkerRunHappyPath(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://ex.com/p": okPage}}
	w := newTestWorker(f, 0)

	records, err := w.Run(context.Background(), []Task{
		{Produto: "Smartphone X", URL: "https://ex.com/p", FonteColuna: "loja_a"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}

	r := records[0]
	if r.Status != "ok" || r.Erro != "" {
		t.Errorf("status = (%q, %q), want ok", r.Status, r.Erro)
	}
	if r.Preco != "R$ 1.299,90" || !r.PrecoNumOK || r.PrecoNum != 1299.90 {
		t.Errorf("preco = (%q, %v, %v)", r.Preco, r.PrecoNum, r.PrecoNumOK)
	}
	if r.Fornecedor != "Loja Oficial" {
		t.Errorf("fornecedor = %q", r.Fornecedor)
	}
	if r.DataColeta == "" || r.Produto != "Smartphone X" || r.FonteColuna != "loja_a" {
		t.Errorf("row metadata missing: %+v", r)
	}
}

func TestWorkerRetriesWithSessionRestart(t *testing.T) {
	f := &fakeFetcher{
		pages:    map[string]string{"https://ex.com/p": okPage},
		failures: map[string]int{"https://ex.com/p": 1},
	}
	w := newTestWorker(f, 2)

	records, err := w.Run(context.Background(), []Task{{Produto: "p", URL: "https://ex.com/p"}})
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Status != "ok" {
		t.Errorf("status = %q, want ok after retry", records[0].Status)
	}
	if f.restarts != 1 {
		t.Errorf("restarts = %d, want 1", f.restarts)
	}
}

func TestWorkerItemFailureDoesNotAbortBatch(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://ex.com/ok": okPage}}
	w := newTestWorker(f, 1)

	records, err := w.Run(context.Background(), []Task{
		{Produto: "quebrado", URL: "https://ex.com/missing"},
		{Produto: "bom", URL: "https://ex.com/ok"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Status != "erro" || !strings.HasPrefix(records[0].Erro, "FetchError: ") {
		t.Errorf("first record = (%q, %q), want fetch error", records[0].Status, records[0].Erro)
	}
	if records[1].Status != "ok" {
		t.Errorf("second record status = %q, want ok", records[1].Status)
	}
}

func TestWorkerSkipsRowsWithoutURL(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://ex.com/p": okPage}}
	w := newTestWorker(f, 0)

	records, err := w.Run(context.Background(), []Task{
		{Produto: "sem link", URL: "n/a"},
		{Produto: "com link", URL: "https://ex.com/p"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Produto != "com link" {
		t.Errorf("records = %+v, want only the linked row", records)
	}
}

func TestWorkerEmptyBatchIsFatal(t *testing.T) {
	w := newTestWorker(&fakeFetcher{}, 0)

	_, err := w.Run(context.Background(), []Task{{Produto: "x", URL: "sem url"}})
	if !errors.Is(err, ErrNoTasks) {
		t.Errorf("err = %v, want ErrNoTasks", err)
	}
}

func TestRecordRowMatchesColumns(t *testing.T) {
	r := Record{PrecoNumOK: true, PrecoNum: 10.5, DuracaoS: 1.234}
	if got, want := len(r.Row()), len(Columns()); got != want {
		t.Fatalf("row width = %d, header width = %d", got, want)
	}
	row := r.Row()
	if row[4] != "10.50" {
		t.Errorf("preco_num = %q, want 10.50", row[4])
	}
	if row[12] != "1.23" {
		t.Errorf("duracao_s = %q, want 1.23", row[12])
	}
}
