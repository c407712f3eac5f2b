package compose

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const bodyYAML = `
- section:
    heading: Overview
    background: muted
    children:
      - Plain paragraph text
      - paragraph:
          - "Built with "
          - strong: Go
          - em:
              - "nested "
              - code: x
      - list:
          bullets: false
          items:
            - one
            - [two, {link: {href: "https://example.com", text: site}}]
      - grid:
          children:
            - image: {src: /media/a.png, alt: A, width: 10, height: 20, order: {wide: 1}}
            - video: {src: /media/b.mp4, aria_label: Demo}
- timeline:
    steps:
      - {icon: search, title: Research, description: Interviews}
`

func decodeSpecs(t *testing.T, src string) []Spec {
	t.Helper()
	var specs []Spec
	if err := yaml.Unmarshal([]byte(src), &specs); err != nil {
		t.Fatal(err)
	}
	return specs
}

func TestSpecDecodeAndBuild(t *testing.T) {
	nodes := Build(decodeSpecs(t, bodyYAML))

	want := []Node{
		&Section{
			Attrs:   Attrs{Background: BackgroundMuted},
			Heading: "Overview",
			Level:   DefaultSectionLevel,
			Children: []Node{
				&Paragraph{Content: Text("Plain paragraph text")},
				&Paragraph{Content: Inline{
					{Text: "Built with "},
					{Style: StyleStrong, Text: "Go"},
					{Style: StyleEmphasis, Children: Inline{
						{Text: "nested "},
						{Style: StyleCode, Text: "x"},
					}},
				}},
				&List{
					Items: []Inline{
						Text("one"),
						{{Text: "two"}, {Style: StyleLink, Href: "https://example.com", Text: "site"}},
					},
				},
				&Grid{
					Columns: DefaultGridColumns,
					Children: []Node{
						&ImageBlock{
							Attrs:  Attrs{Order: Order{Wide: intPtr(1)}},
							Src:    "/media/a.png",
							Alt:    "A",
							Width:  10,
							Height: 20,
						},
						&VideoBlock{Src: "/media/b.mp4", AriaLabel: "Demo"},
					},
				},
			},
		},
		&ProcessTimeline{
			Heading: DefaultTimelineHeading,
			Steps:   []TimelineStep{{Icon: IconSearch, Title: "Research", Description: "Interviews"}},
		},
	}

	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("Built tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecBuildReturnsFreshTrees(t *testing.T) {
	specs := decodeSpecs(t, bodyYAML)

	first := Build(specs)
	second := Build(specs)

	section := first[0].(*Section)
	section.Heading = "changed"
	*section.Children[3].(*Grid).Children[0].(*ImageBlock).Order.Wide = 9
	section.Children[1].(*Paragraph).Content[0].Text = "changed"

	if diff := cmp.Diff(Build(specs), second); diff != "" {
		t.Errorf("Mutating one tree leaked into the specs (-want +got):\n%s", diff)
	}
}

func TestSpecFeaturedIsAlwaysFullWidth(t *testing.T) {
	nodes := Build(decodeSpecs(t, `
- featured:
    heading: Highlights
    children:
      - grid:
          columns: 3
          children:
            - featured_item: {heading: Speed, content: Faster builds}
`))

	wrapper, ok := nodes[0].(*FeaturedWrapper)
	if !ok {
		t.Fatalf("Expected featured wrapper, got %T", nodes[0])
	}
	if wrapper.Width != WidthFull {
		t.Errorf("Expected full width, got %q", wrapper.Width)
	}
	item := wrapper.Children[0].(*Grid).Children[0].(*FeaturedItem)
	if item.Content.String() != "Faster builds" {
		t.Errorf("Expected item content 'Faster builds', got '%s'", item.Content.String())
	}
}

func TestSpecListBulletsDefaultToTrue(t *testing.T) {
	nodes := Build(decodeSpecs(t, `
- list:
    items: [a, b]
`))
	if !nodes[0].(*List).Bulleted {
		t.Error("Expected list to be bulleted by default")
	}
}

func TestSpecImageDimensionsAndLayout(t *testing.T) {
	nodes := Build(decodeSpecs(t, `
- section:
    heading: Screens
    layout: full
    children:
      - image:
          src: /media/a.png
          alt: A
          width: 1280
          height: 753
`))

	section, ok := nodes[0].(*Section)
	if !ok {
		t.Fatalf("Expected section, got %T", nodes[0])
	}
	if section.Attrs.Width != WidthFull {
		t.Errorf("Expected full layout, got %q", section.Attrs.Width)
	}

	image, ok := section.Children[0].(*ImageBlock)
	if !ok {
		t.Fatalf("Expected image, got %T", section.Children[0])
	}
	if image.Width != 1280 || image.Height != 753 {
		t.Errorf("Expected 1280x753, got %dx%d", image.Width, image.Height)
	}
	if image.Attrs.Width != WidthText {
		t.Errorf("Expected default layout on the image, got %q", image.Attrs.Width)
	}
	if err := Validate(section); err != nil {
		t.Errorf("Expected valid section, got %v", err)
	}
}

func TestSpecDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown kind", "- carousel: {}", `unknown node kind "carousel"`},
		{"two keys", "- {section: {heading: a}, grid: {}}", "single-key mapping"},
		{"unknown span", "- paragraph: [{underline: x}]", `unknown span style "underline"`},
		{"link without href", "- paragraph: [{link: {text: x}}]", "link requires href"},
		{"sequence node", "- [a, b]", "single-key mapping"},
		{"unknown section key", "- section: {heading: a, width: full}", "field width not found"},
		{"unknown image key", "- image: {src: /a.png, alt: a, layout: full, caption: x}", "field caption not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var specs []Spec
			err := yaml.Unmarshal([]byte(tt.src), &specs)
			if err == nil {
				t.Fatal("Expected decode error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestInlineLinkTextDefaultsToHref(t *testing.T) {
	var in Inline
	if err := yaml.Unmarshal([]byte(`[{link: {href: "https://example.com"}}]`), &in); err != nil {
		t.Fatal(err)
	}
	if in[0].Text != "https://example.com" {
		t.Errorf("Expected link text to default to href, got '%s'", in[0].Text)
	}
	if in.String() != "https://example.com" {
		t.Errorf("Expected flattened text to be the href, got '%s'", in.String())
	}
}

func TestInlineIsEmpty(t *testing.T) {
	if !(Inline{{Text: "  "}}).IsEmpty() {
		t.Error("Expected whitespace-only content to be empty")
	}
	if (Inline{{Style: StyleStrong, Children: Inline{{Text: "x"}}}}).IsEmpty() {
		t.Error("Expected nested content to be non-empty")
	}
}
