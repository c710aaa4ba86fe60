package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"precoscan/internal/ingest/db"
	"precoscan/pkg/brl"
	"precoscan/pkg/logger"
)

// Row is one scrape-output line, pre-parse. Fields are keyed off the output
// header so column order does not matter.
type Row struct {
	Produto       string
	URL           string
	FonteColuna   string
	Preco         string
	PrecoNum      string
	Fornecedor    string
	Avaliacao     string
	AvaliacoesQtd string
	FreteValor    string
	FretePrazo    string
	DataColeta    string
	Status        string
}

// Stats summarizes one ingest run.
type Stats struct {
	Vendors  int
	Sellers  int
	Products int
	Listings int
	Skipped  int
}

// LoadRows reads the scrape output file (.xlsx or .csv) into rows.
func LoadRows(path string) ([]Row, error) {
	table, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}

	col := map[string]int{}
	for i, h := range table[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	pick := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows []Row
	for _, raw := range table[1:] {
		rows = append(rows, Row{
			Produto:       pick(raw, "produto"),
			URL:           pick(raw, "url"),
			FonteColuna:   pick(raw, "fonte_coluna"),
			Preco:         pick(raw, "preco"),
			PrecoNum:      pick(raw, "preco_num"),
			Fornecedor:    pick(raw, "fornecedor"),
			Avaliacao:     pick(raw, "avaliacao"),
			AvaliacoesQtd: pick(raw, "avaliacoes_qtd"),
			FreteValor:    pick(raw, "frete_valor"),
			FretePrazo:    pick(raw, "frete_prazo"),
			DataColeta:    pick(raw, "data_coleta"),
			Status:        pick(raw, "status"),
		})
	}
	return rows, nil
}

func loadTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open spreadsheet: %w", err)
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer file.Close()
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		return r.ReadAll()
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// Run loads every usable row into the catalog. Each row is its own
// transaction: one malformed row cannot roll the batch back. Listings are
// append-only; re-running the same file grows price history, never product
// rows.
func Run(ctx context.Context, sqldb *sql.DB, rows []Row) (Stats, error) {
	var stats Stats
	queries := db.New(sqldb)

	for _, r := range rows {
		if r.Status != "" && r.Status != "ok" {
			stats.Skipped++
			continue
		}
		// the numeric column is authoritative; the display text is the backup
		price, ok := brl.ParsePrice(r.PrecoNum)
		if !ok {
			price, ok = brl.ParsePrice(r.Preco)
		}
		if !ok {
			stats.Skipped++
			continue
		}
		name := brl.CleanText(r.Produto)
		if name == "" {
			stats.Skipped++
			continue
		}

		if err := ingestRow(ctx, sqldb, queries, r, name, price, &stats); err != nil {
			return stats, fmt.Errorf("ingest %q: %w", name, err)
		}
	}

	logger.Log.Info().
		Int("products", stats.Products).
		Int("listings", stats.Listings).
		Int("skipped", stats.Skipped).
		Msg("ingest finished")
	return stats, nil
}

func ingestRow(ctx context.Context, sqldb *sql.DB, queries *db.Queries, r Row, name string, price float64, stats *Stats) error {
	tx, err := sqldb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	q := queries.WithTx(tx)

	vendorName := VendorName(r.URL, r.FonteColuna)
	vendorID, created, err := getOrCreateVendor(ctx, q, vendorName)
	if err != nil {
		return err
	}
	if created {
		stats.Vendors++
	}

	// first-party sale when the page names no merchant
	sellerName := brl.CleanText(r.Fornecedor)
	if sellerName == "" {
		sellerName = vendorName
	}
	sellerID, created, err := getOrCreateSeller(ctx, q, vendorID, sellerName)
	if err != nil {
		return err
	}
	if created {
		stats.Sellers++
	}

	productID, created, err := getOrCreateProduct(ctx, q, name)
	if err != nil {
		return err
	}
	if created {
		stats.Products++
	}

	collectedAt := brl.CleanText(r.DataColeta)
	if collectedAt == "" {
		collectedAt = time.Now().Format("2006-01-02 15:04:05")
	}

	_, err = q.CreateListing(ctx, db.CreateListingParams{
		ProductID:     productID,
		SellerID:      sellerID,
		VendorID:      vendorID,
		URL:           brl.CleanText(r.URL),
		SourceColumn:  brl.CleanText(r.FonteColuna),
		Price:         price,
		Rating:        nullableRating(r.Avaliacao),
		RatingCount:   nullableCount(r.AvaliacoesQtd),
		ShippingPrice: nullablePrice(r.FreteValor),
		ShippingETA:   brl.CleanText(r.FretePrazo),
		CollectedAt:   collectedAt,
	})
	if err != nil {
		return err
	}
	stats.Listings++

	return tx.Commit()
}

func getOrCreateVendor(ctx context.Context, q *db.Queries, name string) (int64, bool, error) {
	code := Slugify(name)
	v, err := q.GetVendorByCode(ctx, code)
	if err == nil {
		return v.ID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}
	v, err = q.CreateVendor(ctx, db.CreateVendorParams{Name: name, Code: code})
	if err != nil {
		return 0, false, err
	}
	return v.ID, true, nil
}

func getOrCreateSeller(ctx context.Context, q *db.Queries, vendorID int64, name string) (int64, bool, error) {
	slug := Slugify(name)
	s, err := q.GetSellerBySlug(ctx, db.GetSellerBySlugParams{VendorID: vendorID, Slug: slug})
	if err == nil {
		return s.ID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}
	s, err = q.CreateSeller(ctx, db.CreateSellerParams{Name: name, Slug: slug, VendorID: vendorID})
	if err != nil {
		return 0, false, err
	}
	return s.ID, true, nil
}

func getOrCreateProduct(ctx context.Context, q *db.Queries, name string) (int64, bool, error) {
	code := ProductCode(name)
	p, err := q.GetProductByCode(ctx, code)
	if err == nil {
		return p.ID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}
	fields := ExtractFields(name)
	id, err := q.CreateProduct(ctx, db.CreateProductParams{
		Code:    code,
		Name:    name,
		Slug:    Slugify(name),
		Brand:   fields.Brand,
		Model:   fields.Model,
		Variant: fields.Variant(),
	})
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func nullableRating(s string) interface{} {
	if v, ok := ParseRating(s); ok {
		return v
	}
	return nil
}

func nullableCount(s string) interface{} {
	if v, ok := brl.ParseCount(s); ok {
		return v
	}
	return nil
}

func nullablePrice(s string) interface{} {
	if v, ok := brl.ParsePrice(s); ok {
		return v
	}
	return nil
}
