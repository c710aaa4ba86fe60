package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"precoscan/pkg/logger"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

const defaultTabTimeout = 60 * time.Second

// FetchPage loads a product page in a new tab and returns the rendered HTML.
// When cep is non-empty the page's postal-code form is filled so shipping
// options become visible.
func (s *Session) FetchPage(ctx context.Context, url, cep string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()

	timeout := s.opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultTabTimeout
	}
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, timeout)
	defer timeoutCancel()

	var html string
	var cepFilled bool

	tasks := chromedp.Tasks{
		// User-Agent via the emulation API, more reliable than a flag.
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetUserAgentOverride(userAgent).
				WithAcceptLanguage("pt-BR,pt;q=0.9,en;q=0.8").
				WithPlatform("Win32").
				Do(ctx)
		}),
		// Images, media and trackers add nothing to extraction.
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetBlockedURLS([]string{
				"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
				"*.mp4", "*.webm", "*.avi", "*.mov",
				"*.woff", "*.woff2", "*.ttf", "*.eot", "*.otf",
				"*google-analytics*", "*googletagmanager*", "*facebook*",
				"*doubleclick*", "*hotjar*",
			}).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetExtraHTTPHeaders(network.Headers{
				"Accept-Language":           "pt-BR,pt;q=0.9,en;q=0.8",
				"Upgrade-Insecure-Requests": "1",
			}).Do(ctx)
		}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.opts.PageLoadDelay),
		chromedp.Evaluate(warmupScript, nil),
		chromedp.Sleep(500 * time.Millisecond),
	}

	if cep != "" {
		tasks = append(tasks,
			chromedp.Evaluate(cepScript(cep), &cepFilled),
			// Shipping widgets query their backend after the form submit.
			chromedp.Sleep(s.opts.PageLoadDelay),
		)
	}

	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(timeoutCtx, tasks); err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}

	logger.Log.Debug().Str("url", url).Int("html_len", len(html)).Bool("cep_filled", cepFilled).Msg("page fetched")
	return html, nil
}

// warmupScript dismisses cookie/newsletter overlays and scrolls so
// lazy-rendered price blocks mount.
const warmupScript = `
	(function() {
		var closers = document.querySelectorAll(
			'[aria-label*="echar"], [aria-label*="lose"], ' +
			'button[class*="close"], button[class*="dismiss"], ' +
			'#onetrust-accept-btn-handler, [class*="cookie"] button'
		);
		for (var i = 0; i < closers.length && i < 3; i++) {
			try { closers[i].click(); } catch (e) {}
		}
		window.scrollTo(0, document.body.scrollHeight / 2);
		window.scrollTo(0, document.body.scrollHeight);
		window.scrollTo(0, 0);
	})()
`

// cepScript fills the first postal-code input it can find, fires the input
// events frameworks listen for, and clicks the sibling submit. Returns
// whether an input was found.
func cepScript(cep string) string {
	safe := strings.ReplaceAll(cep, `'`, "")
	return `
	(function() {
		var input = document.querySelector(
			'input[name*="cep" i], input[id*="cep" i], ' +
			'input[placeholder*="CEP" i], input[data-testid*="zip" i], ' +
			'input[name*="zip" i]'
		);
		if (!input) { return false; }
		var setter = Object.getOwnPropertyDescriptor(
			window.HTMLInputElement.prototype, 'value').set;
		setter.call(input, '` + safe + `');
		input.dispatchEvent(new Event('input', {bubbles: true}));
		input.dispatchEvent(new Event('change', {bubbles: true}));
		var scope = input.closest('form') || input.parentElement || document;
		var btn = scope.querySelector('button, [type="submit"]');
		if (btn) { try { btn.click(); } catch (e) {} }
		else {
			input.dispatchEvent(new KeyboardEvent('keydown',
				{key: 'Enter', keyCode: 13, bubbles: true}));
		}
		return true;
	})()
	`
}
