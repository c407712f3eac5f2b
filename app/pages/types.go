package pages

import (
	"html/template"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/content"
)

const ContentType = "text/html; charset=utf-8"

// Page is one fully rendered response.
type Page struct {
	Path        string
	Title       string
	Status      int
	ContentType string
	Body        []byte
}

type view struct {
	Title       string
	Description string
	Canonical   string
	Version     string
	BodyClass   string
	Site        content.Site
	Nav         Nav

	Hero   template.HTML
	Topics []topicView
	Main   template.HTML
	Path   string
}

type topicView struct {
	Tag        string
	ID         string
	Heading    string
	Intro      template.HTML
	Background string
	Featured   *cardView
	Related    []cardView
}

type cardView struct {
	Href        string
	Title       string
	Description string
	Tags        []string
	Image       *catalog.Media
	Featured    bool
	Reveal      *revealView
}

type revealView struct {
	State      string
	Index      int
	DelayMs    int64
	DurationMs int64
	Threshold  string
}
