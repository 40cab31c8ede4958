package screenshot

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

var urlRegex = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// ExtractURLs pulls http(s) links out of text, deduplicated, keeping the
// order of first appearance.
func ExtractURLs(text string) []string {
	matches := urlRegex.FindAllString(text, -1)

	var (
		urls []string
		seen = make(map[string]struct{}, len(matches))
	)
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?")
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}

// Capturer turns a page url into a hosted screenshot url.
type Capturer interface {
	Capture(ctx context.Context, url string) (string, error)
}

// CaptureWithFallback walks candidate urls in order until max captures
// succeed or the list runs out. A failed capture is logged and skipped,
// it never aborts the batch.
func CaptureWithFallback(ctx context.Context, capturer Capturer, urls []string, max int) []types.ScreenshotWithURL {
	if capturer == nil || max <= 0 || len(urls) == 0 {
		return nil
	}

	var result []types.ScreenshotWithURL
	for _, url := range urls {
		if len(result) >= max {
			break
		}

		screenshotURL, err := capturer.Capture(ctx, url)
		if err != nil {
			slog.Error("failed to capture screenshot", slog.String("url", url), slog.String("error", err.Error()))
			continue
		}

		result = append(result, types.ScreenshotWithURL{
			OriginalURL:   url,
			ScreenshotURL: screenshotURL,
		})
	}
	return result
}
