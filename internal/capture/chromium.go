package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/spf13/afero"

	"dayflow/internal/config"
)

// Default capture parameters, sized for a wall-mounted landscape panel.
const (
	DefaultWidth      = 1304
	DefaultHeight     = 984
	DefaultTimeoutSec = 30
)

// ReadySelector matches the dashboard root once it has rendered.
const ReadySelector = `[data-ready="true"]`

// CaptureOptions defines parameters for a Chromium-based screenshot capture.
type CaptureOptions struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG screenshot will be written. Missing parent
	// directories are created.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation. If zero,
	// DefaultTimeoutSec is used.
	Timeout time.Duration

	// Fs receives the PNG. Nil means the OS filesystem.
	Fs afero.Fs

	// Headers are sent with every request the page makes.
	Headers map[string]string
}

// OptionsFromConfig builds capture options from the capture section.
// When basic auth guards the dashboard the credentials are forwarded.
func OptionsFromConfig(cfg *config.Config) CaptureOptions {
	opts := CaptureOptions{
		URL:        cfg.DashboardURL(),
		OutputPath: cfg.Capture.Output,
		Width:      cfg.Capture.Width,
		Height:     cfg.Capture.Height,
	}
	if ba := cfg.BasicAuth; ba != nil && ba.Username != "" && ba.Password != "" {
		opts.Headers = map[string]string{
			"Authorization": basicAuth(ba.Username, ba.Password),
		}
	}
	return opts
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func (o *CaptureOptions) normalize() error {
	if o.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if o.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	return nil
}

// CaptureDashboardPNG launches a headless Chromium via chromedp, opens the
// dashboard, waits until ReadySelector is visible and writes a PNG
// screenshot at the requested resolution.
func CaptureDashboardPNG(parentCtx context.Context, opts CaptureOptions) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	var tasks chromedp.Tasks
	if len(opts.Headers) > 0 {
		h := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			h[k] = v
		}
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(h))
	}
	tasks = append(tasks,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		// Let web fonts and emoji finish painting.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	)

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	return writePNG(opts.Fs, opts.OutputPath, png)
}

func writePNG(fsys afero.Fs, path string, png []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("capture: create output dir: %w", err)
	}
	if err := afero.WriteFile(fsys, path, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
