package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures the playwright driver.
type Options struct {
	Headless  bool
	UserAgent string
	TimeoutMs float64
}

// Manager owns the playwright runtime and a single browser instance.
// Pages are handed out one per site session.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

var _ Driver = (*Manager)(nil)

// NewManager starts playwright and launches a chromium instance.
func NewManager(opts Options) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--no-sandbox", "--disable-dev-shm-usage"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &Manager{pw: pw, browser: b, opts: opts}, nil
}

// NewPage creates a fresh browser context and page. The returned page owns
// the context; closing the page closes the context.
func (m *Manager) NewPage() (Page, error) {
	ctx, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(m.opts.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(m.opts.TimeoutMs)

	return &playwrightPage{page: page, ctx: ctx, timeoutMs: m.opts.TimeoutMs}, nil
}

// Close shuts down the browser and the playwright runtime.
func (m *Manager) Close() error {
	if err := m.browser.Close(); err != nil {
		m.pw.Stop()
		return err
	}
	return m.pw.Stop()
}

// playwrightPage adapts a playwright page to the Page interface.
type playwrightPage struct {
	page      playwright.Page
	ctx       playwright.BrowserContext
	timeoutMs float64
}

var _ Page = (*playwrightPage)(nil)

func (p *playwrightPage) Navigate(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(p.timeoutMs),
	})
	return err
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *playwrightPage) ClickNth(selector, childSelector string, index int) (bool, error) {
	items := p.page.Locator(selector)
	n, err := items.Count()
	if err != nil {
		return false, err
	}
	if index >= n {
		return false, nil
	}

	link := items.Nth(index).Locator(childSelector).First()
	c, err := link.Count()
	if err != nil {
		return false, err
	}
	if c == 0 {
		return false, nil
	}

	if err := link.Click(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *playwrightPage) ClickFirst(selector string) (bool, error) {
	loc := p.page.Locator(selector).First()
	c, err := loc.Count()
	if err != nil {
		return false, err
	}
	if c == 0 {
		return false, nil
	}

	if err := loc.Click(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *playwrightPage) Evaluate(expression string) (interface{}, error) {
	return p.page.Evaluate(expression)
}

func (p *playwrightPage) WaitIdle(timeout time.Duration) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) WaitFor(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *playwrightPage) Close() error {
	if err := p.page.Close(); err != nil {
		p.ctx.Close()
		return err
	}
	return p.ctx.Close()
}
