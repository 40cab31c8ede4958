package screenshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

const gotoTimeoutMillis = 10000

// ObjectUploader is the slice of the object storage layer the capturer
// needs for publishing captured images.
type ObjectUploader interface {
	Upload(fullPath string, body io.Reader) error
}

// BrowserCapturer renders pages in headless chromium and publishes the
// capture to object storage. The browser is launched on first use so a
// deployment without the enricher never pays for it.
type BrowserCapturer struct {
	uploader     ObjectUploader
	staticDomain string

	once    sync.Once
	browser playwright.Browser
	initErr error
}

func NewBrowserCapturer(uploader ObjectUploader, staticDomain string) *BrowserCapturer {
	return &BrowserCapturer{
		uploader:     uploader,
		staticDomain: strings.TrimSuffix(staticDomain, "/"),
	}
}

func (s *BrowserCapturer) init() {
	if err := playwright.Install(); err != nil {
		s.initErr = fmt.Errorf("failed to install playwright, %w", err)
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		s.initErr = fmt.Errorf("could not start playwright: %w", err)
		return
	}

	s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		s.initErr = fmt.Errorf("could not launch browser: %w", err)
	}
}

func (s *BrowserCapturer) Capture(ctx context.Context, url string) (string, error) {
	s.once.Do(s.init)
	if s.initErr != nil {
		return "", s.initErr
	}

	browserCtx, err := s.browser.NewContext()
	if err != nil {
		return "", fmt.Errorf("failed to create new browser context, %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to create new page, %w", err)
	}

	if _, err = page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(gotoTimeoutMillis),
	}); err != nil {
		return "", fmt.Errorf("could not goto: %w", err)
	}

	raw, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to capture page, %w", err)
	}

	filePath := fmt.Sprintf("/screenshots/%s.png", utils.GenRandomID())
	if err = s.uploader.Upload(filePath, bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("failed to upload screenshot, %w", err)
	}

	return s.staticDomain + filePath, nil
}
