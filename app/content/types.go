package content

import (
	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/compose"
)

// Site is the chrome and home/about copy loaded from site.yml.
type Site struct {
	Name        string         `yaml:"name"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Hero        compose.Inline `yaml:"hero"`
	Topics      []Topic        `yaml:"topics"`
	About       About          `yaml:"about"`
	Contact     Contact        `yaml:"contact"`
	Nav         []NavLink      `yaml:"nav"`
}

// Topic is one home page band: the featured record of Tag plus its related
// records.
type Topic struct {
	Tag        string             `yaml:"tag"`
	Heading    string             `yaml:"heading"`
	Intro      compose.Inline     `yaml:"intro"`
	Background compose.Background `yaml:"background"`
}

type About struct {
	Title string         `yaml:"title"`
	Body  []compose.Spec `yaml:"body"`
}

type Contact struct {
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
}

type NavLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type catalogFile struct {
	Projects []catalog.Record `yaml:"projects"`
}

type bodyFile struct {
	Body []compose.Spec `yaml:"body"`
}

// Content is everything the service serves, read once at startup.
type Content struct {
	Site    Site
	Records []catalog.Record
	bodies  map[string][]compose.Spec
}

// Body returns the authored body specs of a record, nil when it has none.
func (c *Content) Body(slug string) []compose.Spec {
	return c.bodies[slug]
}

func (c *Content) BodyCount() int {
	return len(c.bodies)
}
