package screenshot

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain text",
			text: "book at https://example.com/flights and https://other.org.",
			want: []string{"https://example.com/flights", "https://other.org"},
		},
		{
			name: "html anchors",
			text: `<a href="https://example.com/a" target="_blank">a</a> <a href="https://example.com/b">b</a>`,
			want: []string{"https://example.com/a", "https://example.com/b"},
		},
		{
			name: "duplicates keep first appearance",
			text: "https://example.com https://second.com https://example.com",
			want: []string{"https://example.com", "https://second.com"},
		},
		{
			name: "trailing punctuation trimmed",
			text: "visit http://example.com/path, or https://example.com/other!",
			want: []string{"http://example.com/path", "https://example.com/other"},
		},
		{
			name: "no links",
			text: "nothing to see here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeCapturer struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeCapturer) Capture(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return "", errors.New("capture failed")
	}
	return "https://static.example.com/shots/" + url[len("https://"):], nil
}

func TestCaptureWithFallback(t *testing.T) {
	urls := []string{"https://a.com", "https://b.com", "https://c.com"}

	t.Run("nil capturer short-circuits", func(t *testing.T) {
		got := CaptureWithFallback(context.Background(), nil, urls, 2)
		if got != nil {
			t.Errorf("expected nil result without a capturer, got %v", got)
		}
	})

	t.Run("zero cap short-circuits", func(t *testing.T) {
		capturer := &fakeCapturer{}
		got := CaptureWithFallback(context.Background(), capturer, urls, 0)
		if got != nil {
			t.Errorf("expected nil result, got %v", got)
		}
		if len(capturer.calls) != 0 {
			t.Errorf("capturer must not be invoked with cap 0, got %d calls", len(capturer.calls))
		}
	})

	t.Run("stops at cap", func(t *testing.T) {
		capturer := &fakeCapturer{}
		got := CaptureWithFallback(context.Background(), capturer, urls, 2)
		if len(got) != 2 {
			t.Fatalf("expected 2 captures, got %d", len(got))
		}
		if got[0].OriginalURL != "https://a.com" || got[1].OriginalURL != "https://b.com" {
			t.Errorf("captures out of order: %v", got)
		}
		if len(capturer.calls) != 2 {
			t.Errorf("expected 2 capture attempts, got %d", len(capturer.calls))
		}
	})

	t.Run("failure falls through to next url", func(t *testing.T) {
		capturer := &fakeCapturer{fail: map[string]bool{"https://a.com": true}}
		got := CaptureWithFallback(context.Background(), capturer, urls, 2)
		if len(got) != 2 {
			t.Fatalf("expected 2 captures, got %d", len(got))
		}
		if got[0].OriginalURL != "https://b.com" || got[1].OriginalURL != "https://c.com" {
			t.Errorf("expected fallback to later urls, got %v", got)
		}
		if len(capturer.calls) != 3 {
			t.Errorf("expected all 3 urls attempted, got %d", len(capturer.calls))
		}
	})
}
