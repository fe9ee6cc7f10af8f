package article

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ryan-gang/ink-drop/internal/logger"
	"github.com/ryan-gang/ink-drop/internal/util"
)

type SourceKind int

const (
	URL SourceKind = iota
	File
)

func (k SourceKind) String() string {
	if k == URL {
		return "url"
	}
	return "file"
}

// Source is one thing to turn into an article.
type Source struct {
	Kind     SourceKind
	Location string
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

// Classify turns command line arguments into sources. Links are fetched,
// .txt files are read as lists of links and anything else is taken as a
// local HTML document. Link lists that cannot be read are reported in the
// returned error; the sources from every other argument are still returned.
func Classify(args []string) ([]Source, error) {
	sources := make([]Source, 0, len(args))
	var errs []error
	for _, arg := range args {
		switch {
		case isURL(arg):
			sources = append(sources, Source{Kind: URL, Location: arg})
		case strings.EqualFold(filepath.Ext(arg), ".txt"):
			links, err := util.ExtractLinks(arg)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", arg, err))
				continue
			}
			for _, link := range links {
				if !isURL(link) {
					logger.Warnf("Skipping %s in %s, not a link", link, arg)
					continue
				}
				sources = append(sources, Source{Kind: URL, Location: link})
			}
		default:
			sources = append(sources, Source{Kind: File, Location: arg})
		}
	}
	return sources, errors.Join(errs...)
}

// Load builds the article for a source. title overrides the detected title.
func Load(src Source, title string, timeout time.Duration) (Article, error) {
	switch src.Kind {
	case URL:
		return FromURL(src.Location, timeout, title)
	case File:
		return FromFile(src.Location, title)
	default:
		return Article{}, fmt.Errorf("unknown source kind %d", src.Kind)
	}
}
