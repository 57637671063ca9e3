package clientinfo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snaplink-io/snaplink/internal/clientinfo"
)

const (
	chromeUA  = "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
	firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	safariUA  = "Mozilla/5.0 (Macintosh) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15"
	mobileUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Mobile/15E148 Safari/604.1"
	tabletUA  = "Mozilla/5.0 (Linux; Android 13; Tablet) Gecko/121.0 Firefox/121.0"
)

func TestParseBrowser(t *testing.T) {
	cases := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"chrome", chromeUA, "Chrome"},
		{"firefox", firefoxUA, "Firefox"},
		{"safari", safariUA, "Safari"},
		{"internet explorer", "Mozilla/5.0 (compatible; MSIE 10.0; Windows NT 6.1; Trident/6.0)", "Internet Explorer"},
		{"other", "curl/8.4.0", "Other"},
		{"empty", "", "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clientinfo.ParseBrowser(tc.userAgent))
		})
	}
}

func TestParseDevice(t *testing.T) {
	cases := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"mobile", mobileUA, "Mobile"},
		{"tablet", tabletUA, "Tablet"},
		{"desktop", chromeUA, "Desktop"},
		{"empty", "", "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clientinfo.ParseDevice(tc.userAgent))
		})
	}
}

func TestNormalizeReferrer(t *testing.T) {
	cases := []struct {
		name     string
		referrer string
		want     string
	}{
		{"absent", "", "Direct"},
		{"full url", "https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"with port", "https://example.com:8443/path", "example.com"},
		{"no host", "/relative/path", "Invalid"},
		{"garbage", "::::", "Invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clientinfo.NormalizeReferrer(tc.referrer))
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("is stable for identical inputs", func(t *testing.T) {
		a := clientinfo.Fingerprint("1.2.3.4", chromeUA, "en-US", "text/html", "")
		b := clientinfo.Fingerprint("1.2.3.4", chromeUA, "en-US", "text/html", "")

		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("differs when any data point changes", func(t *testing.T) {
		base := clientinfo.Fingerprint("1.2.3.4", chromeUA, "en-US", "text/html", "")

		assert.NotEqual(t, base, clientinfo.Fingerprint("1.2.3.5", chromeUA, "en-US", "text/html", ""))
		assert.NotEqual(t, base, clientinfo.Fingerprint("1.2.3.4", firefoxUA, "en-US", "text/html", ""))
		assert.NotEqual(t, base, clientinfo.Fingerprint("1.2.3.4", chromeUA, "en-US", "text/html", "cookie-1"))
	})
}

func TestNew(t *testing.T) {
	t.Run("derives browser, device and visitor id", func(t *testing.T) {
		info := clientinfo.New("1.2.3.4", mobileUA, "https://example.com", "en-US", "text/html", "")

		assert.Equal(t, "1.2.3.4", info.IPAddress)
		assert.Equal(t, "Safari", info.Browser)
		assert.Equal(t, "Mobile", info.DeviceType)
		assert.Equal(t, "https://example.com", info.Referrer)
		assert.NotEmpty(t, info.VisitorID)
	})

	t.Run("defaults a missing IP", func(t *testing.T) {
		info := clientinfo.New("", chromeUA, "", "", "", "")

		assert.Equal(t, "0.0.0.0", info.IPAddress)
	})
}

func TestContext(t *testing.T) {
	t.Run("round-trips through a context", func(t *testing.T) {
		info := clientinfo.New("1.2.3.4", chromeUA, "", "en-US", "text/html", "")
		ctx := clientinfo.WithContext(context.Background(), info)

		assert.Equal(t, info, clientinfo.FromContext(ctx))
	})

	t.Run("returns a zero value when absent", func(t *testing.T) {
		assert.Equal(t, clientinfo.ClientInfo{}, clientinfo.FromContext(context.Background()))
	})
}
