package compose

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Style int

const (
	StylePlain Style = iota
	StyleStrong
	StyleEmphasis
	StyleCode
	StyleLink
)

// Span is one run of inline content. A span with children renders them
// instead of Text, which is how emphasis nests.
type Span struct {
	Style    Style
	Text     string
	Href     string
	Children Inline
}

// Inline is a sequence of spans forming the content of a paragraph, list
// item or caption.
type Inline []Span

func Text(s string) Inline {
	return Inline{{Text: s}}
}

// String flattens the content to plain text.
func (in Inline) String() string {
	var b strings.Builder
	in.writeText(&b)
	return b.String()
}

func (in Inline) writeText(b *strings.Builder) {
	for _, span := range in {
		if len(span.Children) > 0 {
			span.Children.writeText(b)
			continue
		}
		b.WriteString(span.Text)
	}
}

func (in Inline) IsEmpty() bool {
	return strings.TrimSpace(in.String()) == ""
}

var styleKeys = map[string]Style{
	"text":   StylePlain,
	"strong": StyleStrong,
	"em":     StyleEmphasis,
	"code":   StyleCode,
	"link":   StyleLink,
}

// UnmarshalYAML accepts a scalar (plain text) or a sequence whose items are
// scalars or single-key mappings such as {strong: ...}, {em: ...},
// {code: ...} and {link: {href: ..., text: ...}}.
func (in *Inline) UnmarshalYAML(value *yaml.Node) error {
	spans, err := decodeInline(value)
	if err != nil {
		return err
	}
	*in = spans
	return nil
}

func decodeInline(value *yaml.Node) (Inline, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil, nil
		}
		return Inline{{Text: value.Value}}, nil
	case yaml.SequenceNode:
		out := make(Inline, 0, len(value.Content))
		for _, item := range value.Content {
			span, err := decodeSpan(item)
			if err != nil {
				return nil, err
			}
			out = append(out, span)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: inline content must be text or a list of spans", value.Line)
	}
}

func decodeSpan(value *yaml.Node) (Span, error) {
	if value.Kind == yaml.ScalarNode {
		return Span{Text: value.Value}, nil
	}
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return Span{}, fmt.Errorf("line %d: span must be text or a single-key mapping", value.Line)
	}

	key, body := value.Content[0].Value, value.Content[1]
	style, ok := styleKeys[key]
	if !ok {
		return Span{}, fmt.Errorf("line %d: unknown span style %q", value.Line, key)
	}

	if style == StyleLink {
		return decodeLink(body)
	}

	span := Span{Style: style}
	if body.Kind == yaml.ScalarNode {
		span.Text = body.Value
		return span, nil
	}
	children, err := decodeInline(body)
	if err != nil {
		return Span{}, err
	}
	span.Children = children
	return span, nil
}

func decodeLink(body *yaml.Node) (Span, error) {
	var raw struct {
		Href string    `yaml:"href"`
		Text yaml.Node `yaml:"text"`
	}
	if err := body.Decode(&raw); err != nil {
		return Span{}, fmt.Errorf("line %d: invalid link: %w", body.Line, err)
	}
	if raw.Href == "" {
		return Span{}, fmt.Errorf("line %d: link requires href", body.Line)
	}

	span := Span{Style: StyleLink, Href: raw.Href}
	if raw.Text.Kind == yaml.ScalarNode || raw.Text.Kind == 0 {
		span.Text = raw.Text.Value
		if span.Text == "" {
			span.Text = raw.Href
		}
		return span, nil
	}
	children, err := decodeInline(&raw.Text)
	if err != nil {
		return Span{}, err
	}
	span.Children = children
	return span, nil
}
