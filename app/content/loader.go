package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/compose"
)

const (
	SiteFile    = "site.yml"
	CatalogFile = "catalog.yml"
	ProjectsDir = "projects"

	DefaultSiteName = "Folio"
)

var ErrInvalidContent = errors.New("invalid content")

type Loader struct {
	fsys fs.FS
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load reads site.yml, catalog.yml and every projects/<slug>.yml body.
func (l *Loader) Load() (*Content, error) {
	site, err := l.loadSite()
	if err != nil {
		return nil, err
	}

	records, err := l.loadCatalog()
	if err != nil {
		return nil, err
	}

	bodies, err := l.loadBodies(records)
	if err != nil {
		return nil, err
	}

	slog.Debug("Content loaded", "projects", len(records), "bodies", len(bodies), "topics", len(site.Topics))

	return &Content{Site: *site, Records: records, bodies: bodies}, nil
}

func (l *Loader) loadSite() (*Site, error) {
	var site Site
	if err := l.decode(SiteFile, &site); err != nil {
		return nil, err
	}

	if site.Name == "" {
		site.Name = DefaultSiteName
	}
	if site.Title == "" {
		site.Title = site.Name
	}
	if len(site.Nav) == 0 {
		site.Nav = []NavLink{{Label: "Work", Href: "/"}, {Label: "About", Href: "/about"}}
	}
	if site.About.Title == "" {
		site.About.Title = "About"
	}
	for i := range site.Topics {
		if site.Topics[i].Heading == "" {
			site.Topics[i].Heading = site.Topics[i].Tag
		}
	}

	if err := validateSite(&site); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidContent, SiteFile, err)
	}
	return &site, nil
}

func (l *Loader) loadCatalog() ([]catalog.Record, error) {
	var file catalogFile
	if err := l.decode(CatalogFile, &file); err != nil {
		return nil, err
	}

	for i := range file.Projects {
		record := &file.Projects[i]
		if record.Media.Alt == "" {
			record.Media.Alt = record.Title
		}
		if err := validateRecord(record); err != nil {
			return nil, fmt.Errorf("%w: %s: project %d (%s): %w", ErrInvalidContent, CatalogFile, i, record.Slug, err)
		}
	}

	return file.Projects, nil
}

func (l *Loader) loadBodies(records []catalog.Record) (map[string][]compose.Spec, error) {
	known := make(map[string]bool, len(records))
	for _, record := range records {
		known[record.Slug] = true
	}

	files, err := fs.Glob(l.fsys, path.Join(ProjectsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find project files: %w", err)
	}

	bodies := make(map[string][]compose.Spec, len(files))
	for _, file := range files {
		slug := strings.TrimSuffix(path.Base(file), ".yml")
		if !known[slug] {
			return nil, fmt.Errorf("%w: %s has no catalog entry", ErrInvalidContent, file)
		}

		var body bodyFile
		if err := l.decode(file, &body); err != nil {
			return nil, err
		}
		bodies[slug] = body.Body

		slog.Debug("Project body loaded", "slug", slug, "nodes", len(body.Body))
	}

	for _, record := range records {
		if _, ok := bodies[record.Slug]; !ok {
			slog.Warn("Project has no body", "slug", record.Slug)
		}
	}

	return bodies, nil
}

func (l *Loader) decode(name string, out any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func validateSite(site *Site) error {
	seen := make(map[string]bool, len(site.Topics))
	for i, topic := range site.Topics {
		if topic.Tag == "" {
			return fmt.Errorf("topic %d: tag is required", i)
		}
		if topic.Tag == catalog.FeaturedTag {
			return fmt.Errorf("topic %d: '%s' is not a topic tag", i, catalog.FeaturedTag)
		}
		if seen[topic.Tag] {
			return fmt.Errorf("duplicate topic '%s'", topic.Tag)
		}
		seen[topic.Tag] = true
	}

	for i, link := range site.Nav {
		if link.Label == "" || link.Href == "" {
			return fmt.Errorf("nav link %d needs a label and href", i)
		}
	}
	return nil
}

func validateRecord(record *catalog.Record) error {
	requiredFields := map[string]string{
		"slug":        record.Slug,
		"title":       record.Title,
		"description": record.Description,
	}

	for fieldName, fieldValue := range requiredFields {
		if strings.TrimSpace(fieldValue) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if strings.ContainsAny(record.Slug, "/ ") {
		return fmt.Errorf("slug '%s' must be a single path segment", record.Slug)
	}
	if len(record.Tags) == 0 {
		return fmt.Errorf("at least one tag is required")
	}
	if record.Media.Width < 0 || record.Media.Height < 0 {
		return fmt.Errorf("media dimensions must be non-negative")
	}
	if (record.Media.Width == 0) != (record.Media.Height == 0) {
		return fmt.Errorf("media must declare both width and height or neither")
	}

	links := map[string]string{
		"github":    record.Links.GitHub,
		"storybook": record.Links.Storybook,
		"figma":     record.Links.Figma,
	}
	for name, link := range links {
		if link == "" {
			continue
		}
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s link '%s' must be an absolute http(s) URL", name, link)
		}
	}

	return nil
}
