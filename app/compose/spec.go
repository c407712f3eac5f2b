package compose

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSectionLevel    = 2
	DefaultGridColumns     = 2
	DefaultTimelineHeading = "Process snapshot"
)

// Spec is the authored, decoded form of a node. Specs are loaded once and
// Build turns them into a fresh node tree for every document request.
type Spec struct {
	body specBody
}

type specBody interface {
	build() Node
}

// Build constructs a fresh node tree. A zero Spec builds nil.
func (s Spec) Build() Node {
	if s.body == nil {
		return nil
	}
	return s.body.build()
}

// Build constructs new nodes for every spec, in order.
func Build(specs []Spec) []Node {
	if len(specs) == 0 {
		return nil
	}
	out := make([]Node, 0, len(specs))
	for _, spec := range specs {
		out = append(out, spec.Build())
	}
	return out
}

// ParagraphSpec wraps inline content as a paragraph spec.
func ParagraphSpec(content Inline) Spec {
	return Spec{body: &paragraphSpec{Content: content}}
}

type attrsSpec struct {
	Order      Order      `yaml:"order"`
	Background Background `yaml:"background"`
	Width      Width      `yaml:"layout"`
}

func (a attrsSpec) attrs() Attrs {
	return Attrs{
		Order:      Order{Narrow: copyInt(a.Order.Narrow), Wide: copyInt(a.Order.Wide)},
		Background: a.Background,
		Width:      a.Width,
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInlines(items []Inline) []Inline {
	if items == nil {
		return nil
	}
	out := make([]Inline, len(items))
	for i, item := range items {
		out[i] = copyInline(item)
	}
	return out
}

func copyInline(in Inline) Inline {
	if in == nil {
		return nil
	}
	out := make(Inline, len(in))
	for i, span := range in {
		span.Children = copyInline(span.Children)
		out[i] = span
	}
	return out
}

type sectionSpec struct {
	attrsSpec     `yaml:",inline"`
	Heading       string `yaml:"heading"`
	Level         int    `yaml:"level"`
	HeadingHidden bool   `yaml:"heading_hidden"`
	Children      []Spec `yaml:"children"`
}

func (s *sectionSpec) build() Node {
	return &Section{
		Attrs:         s.attrs(),
		Heading:       s.Heading,
		Level:         s.Level,
		HeadingHidden: s.HeadingHidden,
		Children:      Build(s.Children),
	}
}

type paragraphSpec struct {
	attrsSpec `yaml:",inline"`
	Content   Inline `yaml:"content"`
}

func (s *paragraphSpec) build() Node {
	return &Paragraph{Attrs: s.attrs(), Content: copyInline(s.Content)}
}

type listSpec struct {
	attrsSpec `yaml:",inline"`
	Items     []Inline `yaml:"items"`
	Bullets   *bool    `yaml:"bullets"`
}

func (s *listSpec) build() Node {
	bulleted := true
	if s.Bullets != nil {
		bulleted = *s.Bullets
	}
	return &List{Attrs: s.attrs(), Items: copyInlines(s.Items), Bulleted: bulleted}
}

type gridSpec struct {
	attrsSpec `yaml:",inline"`
	Columns   int    `yaml:"columns"`
	Children  []Spec `yaml:"children"`
}

func (s *gridSpec) build() Node {
	return &Grid{Attrs: s.attrs(), Columns: s.Columns, Children: Build(s.Children)}
}

type imageSpec struct {
	attrsSpec   `yaml:",inline"`
	Src         string `yaml:"src"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Alt         string `yaml:"alt"`
	Title       string `yaml:"title"`
	Description Inline `yaml:"description"`
	Inverted    bool   `yaml:"inverted"`
}

func (s *imageSpec) build() Node {
	return &ImageBlock{
		Attrs:       s.attrs(),
		Src:         s.Src,
		Width:       s.Width,
		Height:      s.Height,
		Alt:         s.Alt,
		Title:       s.Title,
		Description: copyInline(s.Description),
		Inverted:    s.Inverted,
	}
}

type videoSpec struct {
	attrsSpec   `yaml:",inline"`
	Src         string `yaml:"src"`
	AriaLabel   string `yaml:"aria_label"`
	Title       string `yaml:"title"`
	Description Inline `yaml:"description"`
}

func (s *videoSpec) build() Node {
	return &VideoBlock{
		Attrs:       s.attrs(),
		Src:         s.Src,
		AriaLabel:   s.AriaLabel,
		Title:       s.Title,
		Description: copyInline(s.Description),
	}
}

type featuredSpec struct {
	attrsSpec `yaml:",inline"`
	Heading   string `yaml:"heading"`
	Children  []Spec `yaml:"children"`
}

func (s *featuredSpec) build() Node {
	attrs := s.attrs()
	attrs.Width = WidthFull
	return &FeaturedWrapper{Attrs: attrs, Heading: s.Heading, Children: Build(s.Children)}
}

type featuredItemSpec struct {
	attrsSpec `yaml:",inline"`
	Heading   string `yaml:"heading"`
	Content   Inline `yaml:"content"`
}

func (s *featuredItemSpec) build() Node {
	return &FeaturedItem{Attrs: s.attrs(), Heading: s.Heading, Content: copyInline(s.Content)}
}

type timelineStepSpec struct {
	Icon        Icon   `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type timelineSpec struct {
	attrsSpec `yaml:",inline"`
	Heading   string             `yaml:"heading"`
	Steps     []timelineStepSpec `yaml:"steps"`
}

func (s *timelineSpec) build() Node {
	steps := make([]TimelineStep, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = TimelineStep(step)
	}
	return &ProcessTimeline{Attrs: s.attrs(), Heading: s.Heading, Steps: steps}
}

// UnmarshalYAML decodes a single-key mapping whose key names the node kind,
// or a bare scalar as paragraph text.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.body = &paragraphSpec{Content: Text(value.Value)}
		return nil
	}
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: node must be a single-key mapping naming its kind", value.Line)
	}

	key, body := value.Content[0].Value, value.Content[1]
	var err error
	switch key {
	case "section":
		spec := &sectionSpec{}
		if err = decodeStrict(body, spec); err == nil && spec.Level == 0 {
			spec.Level = DefaultSectionLevel
		}
		s.body = spec
	case "paragraph":
		spec := &paragraphSpec{}
		if body.Kind == yaml.MappingNode {
			err = decodeStrict(body, spec)
		} else {
			err = body.Decode(&spec.Content)
		}
		s.body = spec
	case "list":
		spec := &listSpec{}
		err = decodeStrict(body, spec)
		s.body = spec
	case "grid":
		spec := &gridSpec{}
		if err = decodeStrict(body, spec); err == nil && spec.Columns == 0 {
			spec.Columns = DefaultGridColumns
		}
		s.body = spec
	case "image":
		spec := &imageSpec{}
		err = decodeStrict(body, spec)
		s.body = spec
	case "video":
		spec := &videoSpec{}
		err = decodeStrict(body, spec)
		s.body = spec
	case "featured":
		spec := &featuredSpec{}
		err = decodeStrict(body, spec)
		s.body = spec
	case "featured_item":
		spec := &featuredItemSpec{}
		err = decodeStrict(body, spec)
		s.body = spec
	case "timeline":
		spec := &timelineSpec{}
		if err = decodeStrict(body, spec); err == nil && spec.Heading == "" {
			spec.Heading = DefaultTimelineHeading
		}
		s.body = spec
	default:
		return fmt.Errorf("line %d: unknown node kind %q", value.Line, key)
	}

	if err != nil {
		return fmt.Errorf("line %d: invalid %s: %w", value.Line, key, err)
	}
	return nil
}

// decodeStrict decodes a node body, rejecting keys the target does not
// declare. yaml.Node.Decode ignores KnownFields, so the body is re-encoded.
func decodeStrict(body *yaml.Node, out any) error {
	data, err := yaml.Marshal(body)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
