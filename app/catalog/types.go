package catalog

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/folio/app/compose"
)

// FeaturedTag is the lifecycle marker that promotes a record to the featured
// slot of its topic.
const FeaturedTag = "featured"

type Record struct {
	Slug             string    `yaml:"slug"`
	Title            string    `yaml:"title"`
	ShortTitle       string    `yaml:"short_title"`
	Description      string    `yaml:"description"`
	ShortDescription string    `yaml:"short_description"`
	Tags             []string  `yaml:"tags"`
	DisplayTags      []string  `yaml:"display_tags"`
	Media            Media     `yaml:"media"`
	Links            Links     `yaml:"links"`
	Role             Narrative `yaml:"role"`
	Published        time.Time `yaml:"published"` // zero when unknown
}

type Media struct {
	Path   string `yaml:"path"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Alt    string `yaml:"alt"`
}

type Links struct {
	GitHub    string `yaml:"github"`
	Storybook string `yaml:"storybook"`
	Figma     string `yaml:"figma"`
}

func (l Links) IsZero() bool {
	return l.GitHub == "" && l.Storybook == "" && l.Figma == ""
}

// Narrative is the rich role payload of a record. Plain YAML text decodes as
// a single paragraph.
type Narrative []compose.Spec

func (n *Narrative) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if strings.TrimSpace(value.Value) == "" {
			*n = nil
			return nil
		}
		*n = Narrative{compose.ParagraphSpec(compose.Text(value.Value))}
		return nil
	}

	var specs []compose.Spec
	if err := value.Decode(&specs); err != nil {
		return err
	}
	*n = specs
	return nil
}

// DisplayTitle returns the short title in compact contexts when one is set.
func (r Record) DisplayTitle(compact bool) string {
	if compact && r.ShortTitle != "" {
		return r.ShortTitle
	}
	return r.Title
}

func (r Record) DisplayDescription(compact bool) string {
	if compact && r.ShortDescription != "" {
		return r.ShortDescription
	}
	return r.Description
}

func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r Record) IsFeatured() bool {
	return r.HasTag(FeaturedTag)
}

func (r Record) clone() Record {
	r.Tags = cloneStrings(r.Tags)
	r.DisplayTags = cloneStrings(r.DisplayTags)
	if r.Role != nil {
		r.Role = append(Narrative(nil), r.Role...)
	}
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Grouping is the "featured + related" view of one topic.
type Grouping struct {
	Tag      string
	Featured *Record
	Related  []Record
}

// Warning is a content-authoring issue found by Store.Validate. The query
// engine itself never enforces it.
type Warning struct {
	Tag   string
	Slugs []string
}

func (w Warning) String() string {
	return fmt.Sprintf("tag %q has %d featured records (%s), expected at most one",
		w.Tag, len(w.Slugs), strings.Join(w.Slugs, ", "))
}
