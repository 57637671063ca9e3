// Package clientinfo derives per-request visitor metadata used by click
// analytics: parsed browser and device type, a normalized referrer, and a
// fingerprint approximating unique visitors without accounts.
package clientinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// ClientInfo is the visitor metadata attached to a resolved visit.
type ClientInfo struct {
	IPAddress  string
	UserAgent  string
	Referrer   string
	Browser    string
	DeviceType string
	VisitorID  string
}

// New derives ClientInfo from raw request attributes. visitorCookie is the
// value of the visitor cookie when present, empty otherwise.
func New(ip, userAgent, referrer, acceptLanguage, accept, visitorCookie string) ClientInfo {
	if ip == "" {
		ip = "0.0.0.0"
	}

	return ClientInfo{
		IPAddress:  ip,
		UserAgent:  userAgent,
		Referrer:   referrer,
		Browser:    ParseBrowser(userAgent),
		DeviceType: ParseDevice(userAgent),
		VisitorID:  Fingerprint(ip, userAgent, acceptLanguage, accept, visitorCookie),
	}
}

// Fingerprint hashes request data points into a stable visitor id.
func Fingerprint(ip, userAgent, acceptLanguage, accept, visitorCookie string) string {
	points := []string{ip, userAgent, acceptLanguage, accept}
	if visitorCookie != "" {
		points = append(points, visitorCookie)
	}

	sum := sha256.Sum256([]byte(strings.Join(points, "|")))

	return hex.EncodeToString(sum[:])
}

// ParseBrowser classifies a user agent into a browser bucket.
func ParseBrowser(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Edge"), strings.Contains(userAgent, "Edg"):
		return "Edge"
	case strings.Contains(userAgent, "MSIE"), strings.Contains(userAgent, "Trident"):
		return "Internet Explorer"
	default:
		return "Other"
	}
}

// ParseDevice classifies a user agent into a device-type bucket.
func ParseDevice(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	switch {
	case strings.Contains(userAgent, "Mobile"):
		return "Mobile"
	case strings.Contains(userAgent, "Tablet"):
		return "Tablet"
	default:
		return "Desktop"
	}
}

// NormalizeReferrer reduces a referrer URL to its bare hostname. An absent
// referrer becomes "Direct", an unparsable one "Invalid".
func NormalizeReferrer(referrer string) string {
	if referrer == "" {
		return "Direct"
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return "Invalid"
	}

	return u.Hostname()
}
