package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/couchcryptid/tide-draft-report/internal/config"
)

// ErrBrowserNotStarted is returned by readiness checks before the first launch.
var ErrBrowserNotStarted = errors.New("browser not started")

// ChromiumConfig holds headless browser settings.
type ChromiumConfig struct {
	Bin    string // empty lets rod download or locate a browser
	Width  int
	Height int
}

// browserProcess is the launched Chromium. *launcher.Launcher implements it.
type browserProcess interface {
	Launch() (string, error)
	Kill()
	Cleanup()
}

// Chromium renders reports as full-page PNG screenshots. One browser process
// is launched lazily and reused; every render gets a fresh page.
type Chromium struct {
	cfg    ChromiumConfig
	logger *slog.Logger

	newProcess func(bin string) browserProcess
	connect    func(controlURL string) (*rod.Browser, error)

	mu      sync.Mutex
	proc    browserProcess
	browser *rod.Browser
}

// NewChromium creates a renderer. The browser starts on Start or the first Render.
func NewChromium(cfg ChromiumConfig, logger *slog.Logger) *Chromium {
	if cfg.Width <= 0 {
		cfg.Width = 1400
	}
	if cfg.Height <= 0 {
		cfg.Height = 1000
	}
	return &Chromium{
		cfg:        cfg,
		logger:     logger,
		newProcess: newLauncher,
		connect:    connectBrowser,
	}
}

func newLauncher(bin string) browserProcess {
	l := launcher.New().Headless(true).NoSandbox(true)
	if bin != "" {
		l = l.Bin(bin)
	}
	return l
}

func connectBrowser(controlURL string) (*rod.Browser, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return browser, nil
}

func (c *Chromium) Format() string      { return config.FormatPNG }
func (c *Chromium) ContentType() string { return "image/png" }

// Start launches and connects to the browser if it is not already running.
func (c *Chromium) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

func (c *Chromium) startLocked() error {
	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return nil
		}
		c.logger.Warn("stale browser connection, relaunching")
		_ = c.shutdownLocked()
	}

	proc := c.newProcess(c.cfg.Bin)
	controlURL, err := proc.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser, err := c.connect(controlURL)
	if err != nil {
		proc.Kill()
		proc.Cleanup()
		return fmt.Errorf("connect to browser: %w", err)
	}

	c.proc = proc
	c.browser = browser
	c.logger.Info("browser started", "viewport_width", c.cfg.Width, "viewport_height", c.cfg.Height)
	return nil
}

// Render loads svg into a blank page and captures a full-page PNG.
func (c *Chromium) Render(ctx context.Context, svg string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.startLocked(); err != nil {
		return nil, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			c.logger.Warn("close page failed", "error", err)
		}
	}()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.Width,
		Height:            c.cfg.Height,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(PageHTML(svg)); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	img, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return img, nil
}

// CheckReadiness reports whether the browser is running and responsive.
func (c *Chromium) CheckReadiness(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser == nil {
		return ErrBrowserNotStarted
	}
	if _, err := c.browser.Version(); err != nil {
		return fmt.Errorf("browser unresponsive: %w", err)
	}
	return nil
}

// Close shuts the browser down and removes its user-data-dir. It is safe to
// call when never started.
func (c *Chromium) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdownLocked()
}

func (c *Chromium) shutdownLocked() error {
	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.proc != nil {
		c.proc.Kill()
		c.proc.Cleanup()
		c.proc = nil
	}
	return err
}
