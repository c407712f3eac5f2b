package feed

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/content"
	"github.com/lysyi3m/folio/app/pages"
)

const DefaultLanguage = "en"

// PageSource renders case study pages; *pages.Builder satisfies it.
type PageSource interface {
	Project(slug string) (*pages.Page, error)
}

type Options struct {
	BaseURL  string
	Version  string
	Language string
}

// Builder turns the catalog into an RSS feed, newest case study first, with
// the article body extracted from each rendered page.
type Builder struct {
	site      content.Site
	store     *catalog.Store
	pages     PageSource
	extractor *ContentExtractor
	generator *Generator
	parser    *Parser
	opts      Options
}

func NewBuilder(site content.Site, store *catalog.Store, source PageSource, opts Options) *Builder {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	return &Builder{
		site:      site,
		store:     store,
		pages:     source,
		extractor: NewContentExtractor(),
		generator: NewGenerator(),
		parser:    NewParser(),
		opts:      opts,
	}
}

// Build renders the feed document.
func (b *Builder) Build() (string, error) {
	records := b.store.All()
	sort.SliceStable(records, func(i, j int) bool {
		a, c := records[i].Published, records[j].Published
		if a.IsZero() || c.IsZero() {
			return !a.IsZero() && c.IsZero()
		}
		return a.After(c)
	})

	items := make([]Item, 0, len(records))
	for _, record := range records {
		item, err := b.item(record)
		if err != nil {
			return "", err
		}
		items = append(items, item)
	}

	channel := Channel{
		Title:       b.site.Title,
		Link:        b.opts.BaseURL + pages.HomePath,
		Description: b.site.Description,
		SelfLink:    b.opts.BaseURL + FeedPath,
		Language:    b.opts.Language,
		Generator:   fmt.Sprintf("Folio/%s", b.opts.Version),
	}

	rss, err := b.generator.Run(channel, items)
	if err != nil {
		return "", fmt.Errorf("failed to generate feed: %w", err)
	}

	_, parsed, err := b.parser.Run([]byte(rss))
	if err != nil {
		return "", fmt.Errorf("generated feed is invalid: %w", err)
	}
	if len(parsed) != len(items) {
		return "", fmt.Errorf("generated feed has %d items, expected %d", len(parsed), len(items))
	}

	slog.Debug("Feed generated", "items", len(items), "bytes", len(rss))

	return rss, nil
}

// Page builds the feed as a cacheable page.
func (b *Builder) Page() (*pages.Page, error) {
	rss, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &pages.Page{
		Path:        FeedPath,
		Title:       b.site.Title,
		Status:      http.StatusOK,
		ContentType: ContentType,
		Body:        []byte(rss),
	}, nil
}

func (b *Builder) item(record catalog.Record) (Item, error) {
	link := b.opts.BaseURL + pages.ProjectsPath + record.Slug

	item := Item{
		GUID:        link,
		Title:       record.Title,
		Link:        link,
		Description: record.Description,
		PublishedAt: record.Published,
		Categories:  record.DisplayTags,
	}

	page, err := b.pages.Project(record.Slug)
	if err != nil {
		return Item{}, fmt.Errorf("failed to render %s for the feed: %w", record.Slug, err)
	}

	pageURL, err := url.Parse(link)
	if err != nil || !pageURL.IsAbs() {
		pageURL = nil
	}

	extracted, err := b.extractor.Run(page.Body, pageURL)
	if err != nil {
		slog.Warn("Feed item has no extracted content", "slug", record.Slug, "error", err)
		return item, nil
	}
	item.Content = extracted

	return item, nil
}
