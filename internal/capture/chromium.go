// Package capture screenshots the viewer UI through headless Chromium.
// The refresh loop uses it to keep a PNG snapshot of today's sheet on
// disk for clients that cannot run the viewer themselves.
package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Defaults match the snapshot dimensions in the config file.
const (
	DefaultWidth      = 800
	DefaultHeight     = 1200
	DefaultTimeoutSec = 30
)

// Options defines parameters for one snapshot capture.
type Options struct {
	// URL of the viewer to capture, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG is written, e.g. "./cache/snapshot.png".
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. Zero
	// selects the defaults above.
	Width  int
	Height int

	// Timeout bounds the entire capture. Zero selects DefaultTimeoutSec.
	Timeout time.Duration
}

// DayPNG navigates headless Chromium to the viewer, waits for the page
// to signal a finished render, and writes a PNG screenshot.
//
// The viewer marks readiness on its body element:
//
//	<body data-ready="true">
//
// The attribute flips to "true" after the first successful layout
// fetch, so the screenshot never shows a half-rendered sheet.
func DayPNG(parentCtx context.Context, opts Options) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	return nil
}
