// Package scrape runs the product-page collection batch: sequential fetch,
// extraction, pacing and retries, producing one output row per input URL.
package scrape

import (
	"strconv"
	"strings"
)

// Record is one output row. Column names stay in Portuguese because the
// downstream spreadsheets and the ingest stage key on them.
type Record struct {
	Produto     string
	URL         string
	FonteColuna string

	Preco      string
	PrecoNum   float64
	PrecoNumOK bool

	Fornecedor string

	Avaliacao     string
	AvaliacoesQtd int64
	AvaliacoesOK  bool

	FreteValor  string
	FretePrazo  string
	FreteMetodo string

	DataColeta string
	DuracaoS   float64
	Status     string
	Erro       string

	PrecoDebug  string
	PrecoFontes string
}

// Columns is the output header, in order.
func Columns() []string {
	return []string{
		"produto", "url", "fonte_coluna", "preco", "preco_num", "fornecedor",
		"avaliacao", "avaliacoes_qtd", "frete_valor", "frete_prazo",
		"frete_metodo", "data_coleta", "duracao_s", "status", "erro",
		"preco_debug", "preco_fontes",
	}
}

// Row renders the record in Columns order. Absent numerics render empty, not
// zero.
func (r Record) Row() []string {
	precoNum := ""
	if r.PrecoNumOK {
		precoNum = strconv.FormatFloat(r.PrecoNum, 'f', 2, 64)
	}
	qtd := ""
	if r.AvaliacoesOK {
		qtd = strconv.FormatInt(r.AvaliacoesQtd, 10)
	}
	return []string{
		r.Produto, r.URL, r.FonteColuna, r.Preco, precoNum, r.Fornecedor,
		r.Avaliacao, qtd, r.FreteValor, r.FretePrazo, r.FreteMetodo,
		r.DataColeta, strconv.FormatFloat(r.DuracaoS, 'f', 2, 64),
		r.Status, r.Erro, r.PrecoDebug, r.PrecoFontes,
	}
}

// joinDebug caps the debug trail so one noisy page cannot blow the cell up.
func joinDebug(entries []string) string {
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return strings.Join(entries, "; ")
}
