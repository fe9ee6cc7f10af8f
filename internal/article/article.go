package article

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/gosimple/slug"
)

const DefaultFetchTimeout = 30 * time.Second

// Article is a titled piece of HTML ready to be mailed.
type Article struct {
	Title   string
	Content string
	Source  string

	// formatted marks content that is already a complete document
	formatted bool
}

// FromFile reads a local HTML document. The file is sent as it is; only the
// title is derived from it when none is given.
func FromFile(path, title string) (Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Article{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if title == "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
		if err != nil {
			return Article{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return Article{
		Title:     title,
		Content:   string(data),
		Source:    path,
		formatted: true,
	}, nil
}

// FromURL downloads a web page and keeps only its readable content.
func FromURL(pageURL string, timeout time.Duration, title string) (Article, error) {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	readable, err := readability.FromURL(pageURL, timeout)
	if err != nil {
		return Article{}, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	if strings.TrimSpace(readable.Content) == "" {
		return Article{}, errors.New("no readable content found at " + pageURL)
	}

	if title == "" {
		title = strings.TrimSpace(readable.Title)
	}
	if title == "" {
		title = pageURL
	}

	return Article{
		Title:   title,
		Content: readable.Content,
		Source:  pageURL,
	}, nil
}

// HTML returns the document that gets attached to the mail.
func (a Article) HTML() (string, error) {
	if a.formatted {
		return a.Content, nil
	}
	return Format(a)
}

// Format wraps the article content into a standalone UTF-8 document headed
// by its title. Lazy-loading attributes are dropped from images so the
// Kindle converter picks up the plain src.
func Format(a Article) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(a.Content))
	if err != nil {
		return "", fmt.Errorf("parsing content of %s: %w", a.Title, err)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		img.RemoveAttr("loading")
		img.RemoveAttr("srcset")
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("rendering content of %s: %w", a.Title, err)
	}

	title := html.EscapeString(a.Title)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n")
	b.WriteString("<title>" + title + "</title>\n</head>\n<body>\n")
	b.WriteString("<h1>" + title + "</h1>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String(), nil
}

// Filename returns the name used when saving the article locally.
func Filename(a Article) string {
	s := slug.Make(a.Title)
	if s == "" {
		return "article.html"
	}
	return s + ".html"
}
