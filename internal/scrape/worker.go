package scrape

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"precoscan/internal/extract"
	"precoscan/internal/sites"
	"precoscan/pkg/logger"
)

// Fetcher turns a URL into rendered HTML. Implemented by the browser session
// and the plain HTTP fallback.
type Fetcher interface {
	FetchPage(ctx context.Context, url, cep string) (string, error)
	Restart() error
	Close()
}

// Task is one product URL to collect, with the label and spreadsheet column
// it came from.
type Task struct {
	Produto     string
	URL         string
	FonteColuna string
}

// Options tunes the batch loop.
type Options struct {
	CEP        string
	PaceBase   time.Duration
	PaceJitter time.Duration
	Retries    int
}

// Worker runs scrape batches. URLs are processed sequentially: the target
// sites rate-limit aggressively and a single browser session cannot usefully
// parallelize anyway.
type Worker struct {
	fetcher  Fetcher
	registry *sites.Registry
	opts     Options
	limiter  *rate.Limiter
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// ErrNoTasks is returned when the input yields nothing scrapeable; that is a
// batch failure, not a per-row one.
var ErrNoTasks = errors.New("no valid product URLs in input")

func NewWorker(fetcher Fetcher, registry *sites.Registry, opts Options) *Worker {
	if opts.PaceBase <= 0 {
		opts.PaceBase = 700 * time.Millisecond
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Worker{
		fetcher:  fetcher,
		registry: registry,
		opts:     opts,
		limiter:  rate.NewLimiter(rate.Every(opts.PaceBase), 1),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Run collects every task and returns one record per task, input order
// preserved. Item failures become error rows; only an empty batch or context
// cancellation abort the run.
func (w *Worker) Run(ctx context.Context, tasks []Task) ([]Record, error) {
	valid := tasks[:0:0]
	for _, t := range tasks {
		if strings.HasPrefix(t.URL, "http://") || strings.HasPrefix(t.URL, "https://") {
			valid = append(valid, t)
		} else {
			logger.Log.Warn().Str("produto", t.Produto).Str("url", t.URL).Msg("skipping row without a usable URL")
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoTasks
	}

	records := make([]Record, 0, len(valid))
	for i, t := range valid {
		if err := w.pace(ctx); err != nil {
			return records, err
		}

		rec := w.collect(ctx, t)
		records = append(records, rec)

		logger.Log.Info().
			Int("n", i+1).
			Int("total", len(valid)).
			Str("produto", t.Produto).
			Str("status", rec.Status).
			Str("preco", rec.Preco).
			Msg("url processed")
	}
	return records, nil
}

// pace waits for the rate limiter plus a random jitter so the request train
// does not look mechanical.
func (w *Worker) pace(ctx context.Context) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	if w.opts.PaceJitter > 0 {
		return w.sleep(ctx, time.Duration(rand.Int63n(int64(w.opts.PaceJitter))))
	}
	return nil
}

// collect handles one task end to end, never returning an error: failures
// are encoded in the record.
func (w *Worker) collect(ctx context.Context, t Task) Record {
	start := w.now()
	rec := Record{
		Produto:     t.Produto,
		URL:         t.URL,
		FonteColuna: t.FonteColuna,
		DataColeta:  start.Format("2006-01-02 15:04:05"),
	}

	html, err := w.fetchWithRetry(ctx, t.URL)
	if err != nil {
		rec.Status, rec.Erro = "erro", "FetchError: "+err.Error()
		rec.DuracaoS = round2Seconds(w.now().Sub(start))
		return rec
	}

	profile := w.registry.MatchURL(t.URL)
	ex, err := extract.Extract(html, profile)
	if err != nil {
		rec.Status, rec.Erro = "erro", "ExtractError: "+err.Error()
		rec.DuracaoS = round2Seconds(w.now().Sub(start))
		return rec
	}

	rec.Preco, rec.PrecoNum, rec.PrecoNumOK = ex.Price, ex.PriceNum, ex.PriceNumOK
	rec.Fornecedor = ex.Seller
	rec.Avaliacao = ex.Rating
	rec.AvaliacoesQtd, rec.AvaliacoesOK = ex.RatingCount, ex.RatingCountOK
	rec.FreteValor, rec.FretePrazo, rec.FreteMetodo = ex.ShippingPrice, ex.ShippingETA, ex.ShippingMethod
	rec.PrecoDebug = joinDebug(ex.Debug)
	rec.PrecoFontes = ex.Provenance
	rec.Status = "ok"
	rec.DuracaoS = round2Seconds(w.now().Sub(start))
	return rec
}

// fetchWithRetry tries the fetcher up to Retries+1 times, recreating the
// session and backing off a little more after each failure.
func (w *Worker) fetchWithRetry(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= w.opts.Retries; attempt++ {
		if attempt > 0 {
			delay := 500*time.Millisecond + time.Duration(attempt)*500*time.Millisecond
			if err := w.sleep(ctx, delay); err != nil {
				return "", err
			}
			if err := w.fetcher.Restart(); err != nil {
				lastErr = fmt.Errorf("restart session: %w", err)
				continue
			}
		}
		html, err := w.fetcher.FetchPage(ctx, url, w.opts.CEP)
		if err == nil {
			return html, nil
		}
		lastErr = err
		logger.Log.Warn().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("fetch failed")
	}
	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func round2Seconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000 // already at ms precision
}
