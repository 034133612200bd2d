package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// captureJS walks every element matched by the selector up to the root,
// recording the CSSOM geometry and computed transform properties once per
// element. It returns the snapshot as a JSON string.
const captureJS = `(function (selector) {
  const index = new Map();
  const elements = [];
  const visit = (el) => {
    if (!el) return -1;
    if (index.has(el)) return index.get(el);
    const i = elements.length;
    index.set(el, i);
    const cs = getComputedStyle(el);
    const rec = {
      tag: el.tagName.toLowerCase(),
      id: el.id || undefined,
      offsetWidth: el.offsetWidth || 0,
      offsetHeight: el.offsetHeight || 0,
      offsetLeft: el.offsetLeft || 0,
      offsetTop: el.offsetTop || 0,
      scrollLeft: el.scrollLeft || 0,
      scrollTop: el.scrollTop || 0,
      parent: -1,
      offsetParent: -1,
      style: {
        transform: cs.transform,
        transformOrigin: cs.transformOrigin,
        perspective: cs.perspective,
        perspectiveOrigin: cs.perspectiveOrigin,
      },
    };
    elements.push(rec);
    rec.parent = visit(el.parentElement);
    rec.offsetParent = visit(el.offsetParent);
    return i;
  };
  const leaves = Array.from(document.querySelectorAll(selector)).map(visit);
  return JSON.stringify({
    url: location.href,
    selector: selector,
    viewport: {
      width: window.innerWidth,
      height: window.innerHeight,
      scrollX: window.scrollX,
      scrollY: window.scrollY,
    },
    elements: elements,
    leaves: leaves,
  });
})`

// Options configures the browser used by Capture.
type Options struct {
	Headless bool
	Timeout  time.Duration
	ExecPath string
	Width    int
	Height   int
	Logger   *zap.Logger
}

// Capture loads url in Chrome, selects elements with selector and records
// everything the resolver reads about them and their ancestors.
func Capture(ctx context.Context, url, selector string, opts Options) (*Snapshot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.Width > 0 && opts.Height > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))
	defer browserCancel()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
		defer cancel()
	}

	logger.Info("capturing page", zap.String("url", url), zap.String("selector", selector))
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("loading %s: %w", url, err)
	}
	return CaptureTab(browserCtx, selector)
}

// CaptureTab captures from the page already loaded in a chromedp context.
func CaptureTab(ctx context.Context, selector string) (*Snapshot, error) {
	arg, err := json.Marshal(selector)
	if err != nil {
		return nil, fmt.Errorf("encoding selector: %w", err)
	}

	var raw string
	script := captureJS + "(" + string(arg) + ")"
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &raw,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true)
		},
	)); err != nil {
		return nil, fmt.Errorf("evaluating capture script: %w", err)
	}
	return Decode([]byte(raw))
}
