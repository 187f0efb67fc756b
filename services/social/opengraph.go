package social

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const maxPageBytes = 1 << 20

// Metadata is what a shared link says about itself.
type Metadata struct {
	Title       string
	Description string
	Image       string
}

// ParseOpenGraph reads og:* (and twitter:*) meta tags from the document head.
// The <title> element is used when no og:title is present. Relative image
// URLs are resolved against base.
func ParseOpenGraph(r io.Reader, base *url.URL) (Metadata, error) {
	var md Metadata
	var docTitle string
	z := html.NewTokenizer(r)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return md, err
			}
			return finish(md, docTitle, base), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "meta":
				applyMeta(&md, tok.Attr)
			case "title":
				if docTitle == "" && z.Next() == html.TextToken {
					docTitle = strings.TrimSpace(string(z.Text()))
				}
			case "body":
				return finish(md, docTitle, base), nil
			}

		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "head" {
				return finish(md, docTitle, base), nil
			}
		}
	}
}

func applyMeta(md *Metadata, attrs []html.Attribute) {
	var key, content string
	for _, a := range attrs {
		switch strings.ToLower(a.Key) {
		case "property", "name":
			key = strings.ToLower(strings.TrimSpace(a.Val))
		case "content":
			content = strings.TrimSpace(a.Val)
		}
	}
	if content == "" {
		return
	}
	switch key {
	case "og:title":
		md.Title = content
	case "twitter:title":
		if md.Title == "" {
			md.Title = content
		}
	case "og:description":
		md.Description = content
	case "description", "twitter:description":
		if md.Description == "" {
			md.Description = content
		}
	case "og:image", "og:image:url", "og:image:secure_url":
		if md.Image == "" || key == "og:image:secure_url" {
			md.Image = content
		}
	case "twitter:image":
		if md.Image == "" {
			md.Image = content
		}
	}
}

func finish(md Metadata, docTitle string, base *url.URL) Metadata {
	if md.Title == "" {
		md.Title = docTitle
	}
	if md.Image != "" && base != nil {
		if ref, err := url.Parse(md.Image); err == nil {
			md.Image = base.ResolveReference(ref).String()
		}
	}
	return md
}

// Fetcher loads link metadata for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Metadata, error)
}

// HTTPFetcher fetches pages over HTTP and parses their Open Graph tags.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: 10 * time.Second},
		UserAgent: "memberportal-linkpreview/1.0",
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Metadata{}, fmt.Errorf("social: unsupported url %q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Metadata{}, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.Client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("social: fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Metadata{}, fmt.Errorf("social: fetch %s: status %d", u.Host, resp.StatusCode)
	}
	// Redirects may land elsewhere; resolve against the final location.
	return ParseOpenGraph(io.LimitReader(resp.Body, maxPageBytes), resp.Request.URL)
}
