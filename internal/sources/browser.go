package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"
)

// BrowserSource renders a page in headless Chrome before extracting its
// content. It exists for reference sites that serve an empty shell to plain
// HTTP clients. The browser is started on first use and shared between calls.
type BrowserSource struct {
	mu            sync.Mutex
	allocCtx      context.Context
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

func NewBrowserSource() *BrowserSource {
	return &BrowserSource{}
}

func (b *BrowserSource) Name() string {
	return "browser"
}

func (b *BrowserSource) Description() string {
	return "Render a script-heavy reference page in a headless browser and extract the main content."
}

func (b *BrowserSource) initBrowser() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		select {
		case <-b.browserCtx.Done():
			b.cleanup()
		default:
			return nil
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)

	return chromedp.Run(b.browserCtx)
}

func (b *BrowserSource) cleanup() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.browserCtx = nil
	b.allocCtx = nil
}

// Close shuts down the shared browser instance.
func (b *BrowserSource) Close() {
	b.mu.Lock()
	b.cleanup()
	b.mu.Unlock()
}

func (b *BrowserSource) Gather(ctx context.Context, target string) (string, error) {
	parsedURL, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %v", err)
	}

	if err := b.initBrowser(); err != nil {
		return "", fmt.Errorf("failed to initialize browser: %v", err)
	}

	actionCtx, cancel := context.WithTimeout(b.browserCtx, 60*time.Second)
	defer cancel()

	var html string
	err = chromedp.Run(actionCtx,
		chromedp.Navigate(target),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", fmt.Errorf("browser fetch failed: %v", err)
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered article: %v", err)
	}

	return formatArticle(article), nil
}
