package ingest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"precoscan/internal/ingest/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqldb, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	return sqldb
}

func testRows() []Row {
	return []Row{
		{
			Produto: "Samsung Galaxy S23 128GB Preto", URL: "https://a.com/p",
			FonteColuna: "loja_a", Preco: "R$ 3.499,00", Fornecedor: "Loja A",
			Avaliacao: "4,7 de 5", AvaliacoesQtd: "1532", FreteValor: "R$ 0,00",
			DataColeta: "2026-08-23 10:00:00", Status: "ok",
		},
		{
			Produto: "Samsung Galaxy S23 128GB Preto", URL: "https://b.com/p",
			FonteColuna: "loja_b", Preco: "R$ 3.399,90", Fornecedor: "Loja B",
			Status: "ok",
		},
		{Produto: "Quebrado", URL: "https://c.com/p", Status: "erro"},
		{Produto: "Sem preço", URL: "https://d.com/p", Status: "ok"},
	}
}

func TestRunBuildsCatalog(t *testing.T) {
	ctx := context.Background()
	sqldb := openTestDB(t)

	stats, err := Run(ctx, sqldb, testRows())
	require.NoError(t, err)

	require.Equal(t, 1, stats.Products, "same title must dedupe into one product")
	require.Equal(t, 2, stats.Sellers)
	require.Equal(t, 2, stats.Vendors, "one vendor per marketplace host")
	require.Equal(t, 2, stats.Listings)
	require.Equal(t, 2, stats.Skipped)

	queries := db.New(sqldb)
	v, err := queries.GetVendorByCode(ctx, Slugify("a.com"))
	require.NoError(t, err)
	require.Equal(t, "a.com", v.Name)

	p, err := queries.GetProductByCode(ctx, ProductCode("Samsung Galaxy S23 128GB Preto"))
	require.NoError(t, err)
	require.Equal(t, "Samsung", p.Brand)
	require.Equal(t, "128GB preto", p.Variant)

	n, err := queries.CountListingsByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestRunIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	sqldb := openTestDB(t)

	_, err := Run(ctx, sqldb, testRows())
	require.NoError(t, err)

	stats, err := Run(ctx, sqldb, testRows())
	require.NoError(t, err)

	require.Zero(t, stats.Products, "second run must not create catalog rows")
	require.Zero(t, stats.Sellers)
	require.Zero(t, stats.Vendors)
	require.Equal(t, 2, stats.Listings)

	queries := db.New(sqldb)
	products, err := queries.CountProducts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, products)

	p, err := queries.GetProductByCode(ctx, ProductCode("Samsung Galaxy S23 128GB Preto"))
	require.NoError(t, err)
	n, err := queries.CountListingsByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 4, n, "listings accumulate across runs")
}

func TestLoadRowsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saida.csv")
	csv := "produto,url,fonte_coluna,preco,fornecedor,avaliacao,status\n" +
		"Fone Z,https://ex.com/fone,loja_a,\"R$ 199,90\",Loja A,\"4,5 de 5\",ok\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	rows, err := LoadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Fone Z", rows[0].Produto)
	require.Equal(t, "R$ 199,90", rows[0].Preco)
	require.Equal(t, "ok", rows[0].Status)
}

func TestLoadRowsRejectsUnknownExtension(t *testing.T) {
	_, err := LoadRows("saida.json")
	require.Error(t, err)
}
