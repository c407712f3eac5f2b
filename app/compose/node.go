package compose

import "fmt"

type Kind int

const (
	KindDocument Kind = iota + 1
	KindSection
	KindParagraph
	KindList
	KindGrid
	KindImageBlock
	KindVideoBlock
	KindFeaturedWrapper
	KindFeaturedItem
	KindProcessTimeline
)

var kindNames = map[Kind]string{
	KindDocument:        "document",
	KindSection:         "section",
	KindParagraph:       "paragraph",
	KindList:            "list",
	KindGrid:            "grid",
	KindImageBlock:      "image",
	KindVideoBlock:      "video",
	KindFeaturedWrapper: "featured",
	KindFeaturedItem:    "featured_item",
	KindProcessTimeline: "timeline",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one structural primitive of a document tree. The set of
// implementations is closed to this package.
type Node interface {
	Kind() Kind
	Attributes() Attrs
	isNode()
}

type Background string

const (
	BackgroundDefault Background = ""
	BackgroundMuted   Background = "muted"
	BackgroundAccent  Background = "accent"
)

type Width string

const (
	WidthText Width = ""
	WidthFull Width = "full"
)

// Order holds the per-breakpoint visual order overrides of a grid child.
// A nil value keeps the child's source position.
type Order struct {
	Narrow *int `yaml:"narrow"`
	Wide   *int `yaml:"wide"`
}

func (o Order) IsZero() bool {
	return o.Narrow == nil && o.Wide == nil
}

// Attrs are the presentation attributes shared by every node kind. They
// affect layout only, never content.
type Attrs struct {
	Order      Order
	Background Background
	Width      Width
}

func (a Attrs) Attributes() Attrs { return a }

func (Attrs) isNode() {}

type Link struct {
	Label string
	Href  string
	Icon  Icon
}

type Media struct {
	Src    string
	Alt    string
	Width  int
	Height int
}

type Document struct {
	Attrs
	Slug  string
	Title string
	Intro string
	Tags  []string
	Hero  *Media
	Role  []Node
	Links []Link
	Body  []Node
}

type Section struct {
	Attrs
	Heading       string
	Level         int
	HeadingHidden bool
	Children      []Node
}

type Paragraph struct {
	Attrs
	Content Inline
}

type List struct {
	Attrs
	Items    []Inline
	Bulleted bool
}

type Grid struct {
	Attrs
	Columns  int
	Children []Node
}

type ImageBlock struct {
	Attrs
	Src         string
	Width       int
	Height      int
	Alt         string
	Title       string
	Description Inline
	Inverted    bool
}

// HasDimensions reports whether the intrinsic size is fully specified.
func (b *ImageBlock) HasDimensions() bool {
	return b.Width > 0 && b.Height > 0
}

type VideoBlock struct {
	Attrs
	Src         string
	AriaLabel   string
	Title       string
	Description Inline
}

type FeaturedWrapper struct {
	Attrs
	Heading  string
	Children []Node
}

type FeaturedItem struct {
	Attrs
	Heading string
	Content Inline
}

type TimelineStep struct {
	Icon        Icon
	Title       string
	Description string
}

type ProcessTimeline struct {
	Attrs
	Heading string
	Steps   []TimelineStep
}

func (*Document) Kind() Kind        { return KindDocument }
func (*Section) Kind() Kind         { return KindSection }
func (*Paragraph) Kind() Kind       { return KindParagraph }
func (*List) Kind() Kind            { return KindList }
func (*Grid) Kind() Kind            { return KindGrid }
func (*ImageBlock) Kind() Kind      { return KindImageBlock }
func (*VideoBlock) Kind() Kind      { return KindVideoBlock }
func (*FeaturedWrapper) Kind() Kind { return KindFeaturedWrapper }
func (*FeaturedItem) Kind() Kind    { return KindFeaturedItem }
func (*ProcessTimeline) Kind() Kind { return KindProcessTimeline }

// Children returns the immediate child nodes of n, or nil for leaves.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		out := make([]Node, 0, len(v.Role)+len(v.Body))
		out = append(out, v.Role...)
		return append(out, v.Body...)
	case *Section:
		return v.Children
	case *Grid:
		return v.Children
	case *FeaturedWrapper:
		return v.Children
	default:
		return nil
	}
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}
