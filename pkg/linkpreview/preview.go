package linkpreview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Preview is the metadata scraped from a page's head section.
type Preview struct {
	Title       string
	Description string
	ImageURL    string
	SiteName    string
	Author      string
}

// Fetcher scrapes OpenGraph/Twitter meta tags from a URL. Used both for link
// cards and as the fallback when full article extraction fails.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

const maxBodyBytes = 2 << 20 // head metadata lives in the first pages of HTML

func (f *Fetcher) Fetch(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; BliiBot/1.0)")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch url: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	preview := &Preview{}
	walk(doc, preview)
	return preview, nil
}

func walk(n *html.Node, p *Preview) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			applyMeta(n, p)
		case "title":
			if p.Title == "" && n.FirstChild != nil {
				p.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, p)
	}
}

func applyMeta(n *html.Node, p *Preview) {
	var key, content string
	for _, a := range n.Attr {
		switch a.Key {
		case "property", "name":
			key = strings.ToLower(a.Val)
		case "content":
			content = strings.TrimSpace(a.Val)
		}
	}
	if content == "" {
		return
	}

	switch key {
	case "og:title", "twitter:title":
		p.Title = content
	case "og:description", "twitter:description", "description":
		if p.Description == "" {
			p.Description = content
		}
	case "og:image", "twitter:image":
		if p.ImageURL == "" {
			p.ImageURL = content
		}
	case "og:site_name":
		p.SiteName = content
	case "author", "article:author":
		if p.Author == "" {
			p.Author = content
		}
	}
}
