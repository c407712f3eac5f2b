package compose

import (
	"errors"
	"strings"
	"testing"
)

func validDocument() *Document {
	return &Document{
		Slug:  "sample",
		Title: "Sample",
		Role:  []Node{&Paragraph{Content: Text("Lead designer")}},
		Body: []Node{
			&Section{
				Heading: "Overview",
				Level:   2,
				Children: []Node{
					&Grid{Columns: 2, Children: []Node{
						&ImageBlock{Src: "/media/a.png", Alt: "A", Width: 4, Height: 3},
						&Paragraph{Attrs: Attrs{Order: Order{Wide: intPtr(0)}}, Content: Text("Copy")},
					}},
				},
			},
			&FeaturedWrapper{Heading: "Highlights", Children: []Node{
				&Grid{Columns: 3, Children: []Node{&FeaturedItem{Heading: "Speed"}}},
			}},
			&ProcessTimeline{Heading: "Process", Steps: []TimelineStep{
				{Icon: IconSearch, Title: "Research"},
				{Icon: IconRocket, Title: "Launch"},
			}},
		},
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	if err := Validate(validDocument()); err != nil {
		t.Errorf("Expected valid document, got %v", err)
	}
}

func TestValidateRejectsMalformedNodes(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		reason string
	}{
		{
			name:   "empty grid",
			node:   &Grid{Columns: 2},
			reason: "grid has no children",
		},
		{
			name:   "four columns",
			node:   &Grid{Columns: 4, Children: []Node{&Paragraph{Content: Text("x")}}},
			reason: "not in {1,2,3}",
		},
		{
			name:   "heading level",
			node:   &Section{Heading: "Deep", Level: 5},
			reason: "heading level 5",
		},
		{
			name:   "missing heading",
			node:   &Section{Level: 2},
			reason: "section heading is required",
		},
		{
			name:   "partial image dimensions",
			node:   &ImageBlock{Src: "/media/a.png", Alt: "A", Height: 300},
			reason: "both width and height",
		},
		{
			name:   "image without alt",
			node:   &ImageBlock{Src: "/media/a.png"},
			reason: "alt text is required",
		},
		{
			name:   "video without label",
			node:   &VideoBlock{Src: "/media/a.mp4"},
			reason: "aria label is required",
		},
		{
			name:   "order outside grid",
			node:   &Section{Heading: "S", Level: 2, Children: []Node{&Paragraph{Attrs: Attrs{Order: Order{Narrow: intPtr(1)}}, Content: Text("x")}}},
			reason: "order override outside a grid",
		},
		{
			name:   "negative order",
			node:   &Grid{Columns: 1, Children: []Node{&Paragraph{Attrs: Attrs{Order: Order{Wide: intPtr(-1)}}, Content: Text("x")}}},
			reason: "negative order override",
		},
		{
			name:   "featured item in plain grid",
			node:   &Grid{Columns: 1, Children: []Node{&FeaturedItem{Heading: "x"}}},
			reason: "featured item outside a featured wrapper",
		},
		{
			name:   "featured item in section",
			node:   &Section{Heading: "S", Level: 2, Children: []Node{&FeaturedItem{Heading: "x"}}},
			reason: "featured item outside a featured wrapper",
		},
		{
			name:   "featured wrapper without grid",
			node:   &FeaturedWrapper{Heading: "H", Children: []Node{&Paragraph{Content: Text("x")}}},
			reason: "children must be grids",
		},
		{
			name:   "unknown icon",
			node:   &ProcessTimeline{Heading: "P", Steps: []TimelineStep{{Icon: "sparkles", Title: "Magic"}}},
			reason: `unknown icon "sparkles"`,
		},
		{
			name:   "empty timeline",
			node:   &ProcessTimeline{Heading: "P"},
			reason: "timeline has no steps",
		},
		{
			name:   "empty paragraph",
			node:   &Paragraph{Content: Text(" ")},
			reason: "paragraph has no content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.node)
			if err == nil {
				t.Fatal("Expected malformed node error, got nil")
			}
			if !errors.Is(err, ErrMalformedNode) {
				t.Errorf("Expected ErrMalformedNode, got %v", err)
			}
			var malformed *MalformedNodeError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected *MalformedNodeError, got %T", err)
			}
			if !strings.Contains(malformed.Reason, tt.reason) {
				t.Errorf("Expected reason containing %q, got %q", tt.reason, malformed.Reason)
			}
		})
	}
}

func TestValidateReportsPath(t *testing.T) {
	doc := validDocument()
	doc.Body[0].(*Section).Children[0].(*Grid).Children[0].(*ImageBlock).Alt = ""

	var malformed *MalformedNodeError
	if !errors.As(Validate(doc), &malformed) {
		t.Fatal("Expected *MalformedNodeError")
	}
	want := "document.body[0].children[0].children[0]"
	if malformed.Path != want {
		t.Errorf("Expected path '%s', got '%s'", want, malformed.Path)
	}
	if malformed.Kind != KindImageBlock {
		t.Errorf("Expected kind image, got %s", malformed.Kind)
	}
}

func TestValidateAll(t *testing.T) {
	nodes := []Node{&Paragraph{Content: Text("ok")}, &List{}}

	var malformed *MalformedNodeError
	if !errors.As(ValidateAll("role", nodes), &malformed) {
		t.Fatal("Expected *MalformedNodeError")
	}
	if malformed.Path != "role[1]" {
		t.Errorf("Expected path 'role[1]', got '%s'", malformed.Path)
	}
}

func TestKnownIconsSorted(t *testing.T) {
	icons := KnownIcons()
	for i := 1; i < len(icons); i++ {
		if icons[i-1] >= icons[i] {
			t.Errorf("Expected sorted icons, got %s before %s", icons[i-1], icons[i])
		}
	}
	for _, icon := range icons {
		if !icon.Known() {
			t.Errorf("Expected %s to be known", icon)
		}
	}
}

func TestAnchor(t *testing.T) {
	tests := map[string]string{
		"Process snapshot":          "process-snapshot",
		"  Résumé & Café  ":         "resume-cafe",
		"Design tokens: v2.0":       "design-tokens-v2-0",
		"UI/UX":                     "ui-ux",
		"???":                       "",
		"Über-Component Ecosystem!": "uber-component-ecosystem",
	}
	for in, want := range tests {
		if got := Anchor(in); got != want {
			t.Errorf("Anchor(%q): expected '%s', got '%s'", in, want, got)
		}
	}
}
