package pages

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/compose"
	"github.com/lysyi3m/folio/app/content"
	"github.com/lysyi3m/folio/app/document"
	"github.com/lysyi3m/folio/app/reveal"
)

const (
	HomePath     = "/"
	AboutPath    = "/about"
	ProjectsPath = "/projects/"
)

var pageTemplates = []string{"home", "project", "about", "notfound"}

type Options struct {
	Reveal  reveal.Config
	Clock   reveal.Clock
	Version string
	BaseURL string
}

// Builder renders the site pages. Every render gets its own reveal scene,
// closed once the HTML is written.
type Builder struct {
	site      content.Site
	store     *catalog.Store
	assembler *document.Assembler
	opts      Options
	templates map[string]*template.Template
}

func NewBuilder(site content.Site, store *catalog.Store, assembler *document.Assembler, opts Options) (*Builder, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		tmpl, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Builder{
		site:      site,
		store:     store,
		assembler: assembler,
		opts:      opts,
		templates: templates,
	}, nil
}

// Paths lists every page the site serves: home, about and one per record.
func (b *Builder) Paths() []string {
	records := b.store.All()
	paths := make([]string, 0, len(records)+2)
	paths = append(paths, HomePath, AboutPath)
	for _, record := range records {
		paths = append(paths, ProjectsPath+record.Slug)
	}
	return paths
}

// Build renders the page at path. Unknown paths return an error matching
// document.ErrNotFound.
func (b *Builder) Build(path string) (*Page, error) {
	switch {
	case path == HomePath:
		return b.Home()
	case path == AboutPath:
		return b.About()
	case strings.HasPrefix(path, ProjectsPath):
		return b.Project(strings.TrimPrefix(path, ProjectsPath))
	default:
		return nil, fmt.Errorf("%w: %s", document.ErrNotFound, path)
	}
}

func (b *Builder) Home() (*Page, error) {
	scene := b.newScene()
	defer scene.Close()

	v := b.newView(HomePath, b.site.Title)
	v.Description = b.site.Description
	v.BodyClass = "page-home"

	hero, err := inlineHTML(b.site.Hero)
	if err != nil {
		return nil, err
	}
	v.Hero = hero

	for _, topic := range b.site.Topics {
		tv, err := b.topic(topic, scene)
		if err != nil {
			return nil, err
		}
		v.Topics = append(v.Topics, tv)
	}

	return b.render("home", http.StatusOK, v)
}

func (b *Builder) About() (*Page, error) {
	scene := b.newScene()
	defer scene.Close()

	about := b.site.About
	nodes := compose.Build(about.Body)
	if err := compose.ValidateAll("about", nodes); err != nil {
		return nil, fmt.Errorf("failed to build about page: %w", err)
	}

	main, err := compose.NewRenderer(scene).RenderString(nodes...)
	if err != nil {
		return nil, fmt.Errorf("failed to render about page: %w", err)
	}

	v := b.newView(AboutPath, about.Title+" | "+b.site.Name)
	v.Description = b.site.Description
	v.BodyClass = "page-about"
	v.Main = template.HTML(main)

	return b.render("about", http.StatusOK, v)
}

// Project renders the case study of slug. Unknown slugs return an error
// matching document.ErrNotFound.
func (b *Builder) Project(slug string) (*Page, error) {
	doc, err := b.assembler.Assemble(slug)
	if err != nil {
		return nil, err
	}

	scene := b.newScene()
	defer scene.Close()

	main, err := compose.NewRenderer(scene).RenderString(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render project %s: %w", slug, err)
	}

	path := ProjectsPath + slug
	v := b.newView(path, doc.Title+" | "+b.site.Name)
	v.Description = doc.Intro
	v.BodyClass = "page-project"
	v.Main = template.HTML(main)

	slog.Debug("Project page rendered", "slug", slug, "groups", len(scene.Groups()))

	return b.render("project", http.StatusOK, v)
}

func (b *Builder) NotFound(path string) (*Page, error) {
	v := b.newView(path, "Page not found | "+b.site.Name)
	v.Canonical = ""
	v.BodyClass = "page-not-found"
	v.Path = path

	return b.render("notfound", http.StatusNotFound, v)
}

func (b *Builder) topic(topic content.Topic, scene *reveal.Scene) (topicView, error) {
	intro, err := inlineHTML(topic.Intro)
	if err != nil {
		return topicView{}, err
	}

	tv := topicView{
		Tag:        topic.Tag,
		ID:         compose.Anchor(topic.Heading),
		Heading:    topic.Heading,
		Intro:      intro,
		Background: string(topic.Background),
	}
	if tv.ID == "" {
		tv.ID = compose.Anchor(topic.Tag)
	}

	grouping := b.store.Group(topic.Tag)
	if grouping.Featured != nil {
		card := newCard(*grouping.Featured, false)
		tv.Featured = &card
	}

	if len(grouping.Related) > 0 {
		group := scene.Group(len(grouping.Related))
		for i, record := range grouping.Related {
			card := newCard(record, true)
			card.Reveal = newRevealView(group.Item(i))
			tv.Related = append(tv.Related, card)
		}
	}

	return tv, nil
}

func (b *Builder) render(name string, status int, v *view) (*Page, error) {
	tmpl, ok := b.templates[name]
	if !ok {
		return nil, errors.New("unknown page template " + name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		return nil, fmt.Errorf("failed to execute %s template: %w", name, err)
	}

	return &Page{
		Path:        v.Nav.Current,
		Title:       v.Title,
		Status:      status,
		ContentType: ContentType,
		Body:        buf.Bytes(),
	}, nil
}

func (b *Builder) newView(path, title string) *view {
	v := &view{
		Title:   title,
		Version: b.opts.Version,
		Site:    b.site,
		Nav:     NewNav(b.site.Nav, path),
	}
	if b.opts.BaseURL != "" {
		v.Canonical = strings.TrimSuffix(b.opts.BaseURL, "/") + path
	}
	return v
}

func (b *Builder) newScene() *reveal.Scene {
	return reveal.NewScene(b.opts.Reveal, b.opts.Clock, nil)
}

func newCard(record catalog.Record, compact bool) cardView {
	card := cardView{
		Href:        ProjectsPath + record.Slug,
		Title:       record.DisplayTitle(compact),
		Description: record.DisplayDescription(compact),
		Tags:        record.DisplayTags,
		Featured:    !compact,
	}
	if record.Media.Path != "" {
		media := record.Media
		card.Image = &media
	}
	return card
}

func newRevealView(c *reveal.Controller) *revealView {
	cfg := c.Config()
	return &revealView{
		State:      c.State().String(),
		Index:      c.Index(),
		DelayMs:    c.Delay().Milliseconds(),
		DurationMs: cfg.Duration.Milliseconds(),
		Threshold:  strconv.FormatFloat(cfg.Threshold, 'f', -1, 64),
	}
}

func inlineHTML(content compose.Inline) (template.HTML, error) {
	var b strings.Builder
	if err := compose.RenderInline(&b, content); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
