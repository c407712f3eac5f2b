package compose

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedNode = errors.New("malformed composition node")

// MalformedNodeError reports a node that violates its kind's structural
// contract. It is a content-authoring defect, surfaced at assembly time.
type MalformedNodeError struct {
	Path   string
	Kind   Kind
	Reason string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("%s at %s (%s): %s", ErrMalformedNode, e.Path, e.Kind, e.Reason)
}

func (e *MalformedNodeError) Unwrap() error {
	return ErrMalformedNode
}

type scope struct {
	path       string
	gridChild  bool
	inFeatured bool
}

func (s scope) child(name string, i int) scope {
	return scope{path: fmt.Sprintf("%s.%s[%d]", s.path, name, i), inFeatured: s.inFeatured}
}

// Validate checks n and its whole subtree, returning the first
// *MalformedNodeError found.
func Validate(n Node) error {
	return validateNode(n, scope{path: n.Kind().String()})
}

// ValidateAll validates a node list as it appears under root.
func ValidateAll(root string, nodes []Node) error {
	for i, n := range nodes {
		if err := validateNode(n, scope{path: fmt.Sprintf("%s[%d]", root, i)}); err != nil {
			return err
		}
	}
	return nil
}

func malformed(s scope, n Node, format string, args ...any) error {
	return &MalformedNodeError{Path: s.path, Kind: n.Kind(), Reason: fmt.Sprintf(format, args...)}
}

func validateNode(n Node, s scope) error {
	if n == nil {
		return &MalformedNodeError{Path: s.path, Reason: "nil node"}
	}

	order := n.Attributes().Order
	if !order.IsZero() {
		if !s.gridChild {
			return malformed(s, n, "order override outside a grid")
		}
		for _, v := range []*int{order.Narrow, order.Wide} {
			if v != nil && *v < 0 {
				return malformed(s, n, "negative order override %d", *v)
			}
		}
	}

	switch v := n.(type) {
	case *Document:
		if strings.TrimSpace(v.Title) == "" {
			return malformed(s, n, "document title is required")
		}
		if err := validateChildren(s, "role", v.Role); err != nil {
			return err
		}
		return validateChildren(s, "body", v.Body)

	case *Section:
		if strings.TrimSpace(v.Heading) == "" {
			return malformed(s, n, "section heading is required")
		}
		if v.Level < 1 || v.Level > 4 {
			return malformed(s, n, "heading level %d outside 1-4", v.Level)
		}
		return validateChildren(s, "children", v.Children)

	case *Paragraph:
		if v.Content.IsEmpty() {
			return malformed(s, n, "paragraph has no content")
		}
		return nil

	case *List:
		if len(v.Items) == 0 {
			return malformed(s, n, "list has no items")
		}
		return nil

	case *Grid:
		if v.Columns < 1 || v.Columns > 3 {
			return malformed(s, n, "grid columns %d not in {1,2,3}", v.Columns)
		}
		if len(v.Children) == 0 {
			return malformed(s, n, "grid has no children")
		}
		for i, child := range v.Children {
			cs := s.child("children", i)
			cs.gridChild = true
			if _, ok := child.(*FeaturedItem); ok && !s.inFeatured {
				return malformed(cs, child, "featured item outside a featured wrapper")
			}
			if err := validateNode(child, cs); err != nil {
				return err
			}
		}
		return nil

	case *ImageBlock:
		if v.Src == "" {
			return malformed(s, n, "image src is required")
		}
		if strings.TrimSpace(v.Alt) == "" {
			return malformed(s, n, "image alt text is required")
		}
		if v.Width < 0 || v.Height < 0 {
			return malformed(s, n, "negative image dimensions %dx%d", v.Width, v.Height)
		}
		if (v.Width == 0) != (v.Height == 0) {
			return malformed(s, n, "image must declare both width and height or neither")
		}
		return nil

	case *VideoBlock:
		if v.Src == "" {
			return malformed(s, n, "video src is required")
		}
		if strings.TrimSpace(v.AriaLabel) == "" {
			return malformed(s, n, "video aria label is required")
		}
		return nil

	case *FeaturedWrapper:
		if strings.TrimSpace(v.Heading) == "" {
			return malformed(s, n, "featured wrapper heading is required")
		}
		for i, child := range v.Children {
			cs := s.child("children", i)
			cs.inFeatured = true
			if _, ok := child.(*Grid); !ok {
				return malformed(cs, child, "featured wrapper children must be grids")
			}
			if err := validateNode(child, cs); err != nil {
				return err
			}
		}
		return nil

	case *FeaturedItem:
		if strings.TrimSpace(v.Heading) == "" {
			return malformed(s, n, "featured item heading is required")
		}
		return nil

	case *ProcessTimeline:
		if len(v.Steps) == 0 {
			return malformed(s, n, "timeline has no steps")
		}
		for i, step := range v.Steps {
			if strings.TrimSpace(step.Title) == "" {
				return malformed(s.child("steps", i), n, "timeline step title is required")
			}
			if !step.Icon.Known() {
				return malformed(s.child("steps", i), n, "unknown icon %q", step.Icon)
			}
		}
		return nil
	}

	return malformed(s, n, "unsupported node kind")
}

func validateChildren(s scope, name string, nodes []Node) error {
	for i, child := range nodes {
		cs := s.child(name, i)
		if _, ok := child.(*FeaturedItem); ok {
			return malformed(cs, child, "featured item outside a featured wrapper")
		}
		if err := validateNode(child, cs); err != nil {
			return err
		}
	}
	return nil
}
