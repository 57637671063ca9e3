package handlers

import (
	"time"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// CreateURLRequest is the request for creating a short URL.
type CreateURLRequest struct {
	Body struct {
		OriginalURL         string     `doc:"Original long URL to be shortened" example:"https://example.com/very/long/path"  json:"originalUrl"`
		Alias               string     `doc:"Custom alias for the shortened URL"  example:"my-custom-link"                    json:"alias,omitempty"        maxLength:"100" minLength:"3" required:"false"`
		Title               string     `doc:"Title for organization"              json:"title,omitempty"                      maxLength:"255"               required:"false"`
		Category            string     `doc:"Category/tag for organization"       json:"category,omitempty"                   maxLength:"100"               required:"false"`
		CustomDomain        string     `doc:"Custom domain for the short URL"     json:"customDomain,omitempty"               required:"false"`
		ExpiresAt           *time.Time `doc:"Expiration date"                     json:"expiresAt,omitempty"                  required:"false"`
		IsPasswordProtected bool       `doc:"Whether the URL requires a password" json:"isPasswordProtected,omitempty"        required:"false"`
		Password            string     `doc:"Password for protected URLs"         json:"password,omitempty"                   required:"false"`
	}
}

// CreateURLResponse is the response for a successfully created short URL.
type CreateURLResponse struct {
	Body shortener.View
}

// ListURLsRequest is the request for searching the caller's URLs.
type ListURLsRequest struct {
	Search string `doc:"Free-text search over URL, alias and title" query:"search" required:"false"`
	Status string `doc:"Status filter"                              enum:"active,expired,disabled,deleted" query:"status" required:"false"`
	Page   int    `doc:"Page number"                                default:"1"    minimum:"1" query:"page"`
	Limit  int    `doc:"Page size"                                  default:"20"   maximum:"100" minimum:"1" query:"limit"`
}

// ListURLsResponse is one page of URL views plus the total match count.
type ListURLsResponse struct {
	Body shortener.SearchResult
}

// RedirectRequest is the request for resolving a short URL.
type RedirectRequest struct {
	Alias string `doc:"Short URL alias" example:"demo1" path:"alias"`
}

// RedirectResponse either redirects to the original URL (302 + Location)
// or signals that a password must be submitted first (200).
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
	Body struct {
		IsPasswordProtected bool `doc:"Whether a password must be submitted" json:"isPasswordProtected"`
	}
}

// AccessURLRequest submits the password for a protected short URL.
type AccessURLRequest struct {
	Alias string `doc:"Short URL alias" path:"alias"`
	Body  struct {
		Password string `doc:"Password for the protected URL" json:"password" minLength:"1"`
	}
}

// AccessURLResponse returns the original URL after successful password
// verification.
type AccessURLResponse struct {
	Body struct {
		OriginalURL string `doc:"The original URL" json:"originalUrl"`
	}
}

// AnalyticsRequest is the request for a URL's analytics view. The date
// range parameters are accepted but the timeline currently always covers
// the trailing 30 days.
type AnalyticsRequest struct {
	Alias     string `doc:"Short URL alias"              path:"alias"`
	StartDate string `doc:"Range start (ISO date)"       query:"startDate" required:"false"`
	EndDate   string `doc:"Range end (ISO date)"         query:"endDate"   required:"false"`
}

// AnalyticsResponse is the derived analytics view.
type AnalyticsResponse struct {
	Body shortener.Analytics
}
