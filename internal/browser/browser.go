package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the launched browser
type Options struct {
	URL        string
	Width      int
	Height     int
	Headless   bool
	Timeout    time.Duration
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
}

// Browser wraps the Rod browser and page for reuse
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
}

// Launch starts a local browser with touch emulation and opens opts.URL
func Launch(opts Options) (*Browser, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b := &Browser{browser: browser}
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	b.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
		Mobile:            true,
	}); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	// Touch.dispatchTouchEvent is ignored unless touch emulation is on
	maxPoints := 5
	if err := (proto.EmulationSetTouchEmulationEnabled{Enabled: true, MaxTouchPoints: &maxPoints}).Call(page); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to enable touch emulation: %w", err)
	}

	if opts.URL != "" {
		timed := page.Timeout(opts.Timeout)
		err := timed.Navigate(opts.URL)
		if err == nil {
			err = timed.WaitLoad()
		}
		timed.CancelTimeout()
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to load %s: %w", opts.URL, err)
		}
	}

	return b, nil
}

// Close cleans up browser resources
func (b *Browser) Close() {
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
}

// Page returns the underlying Rod page
func (b *Browser) Page() *rod.Page {
	return b.page
}
