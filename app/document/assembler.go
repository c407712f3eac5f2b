package document

import (
	"errors"
	"fmt"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/compose"
)

var ErrNotFound = errors.New("document not found")

// BodySource supplies the authored body of a record.
type BodySource interface {
	Body(slug string) []compose.Spec
}

// Assembler binds catalog records to their composition bodies. It holds no
// mutable state, so one Assembler serves every request.
type Assembler struct {
	store  *catalog.Store
	bodies BodySource
}

func NewAssembler(store *catalog.Store, bodies BodySource) *Assembler {
	return &Assembler{store: store, bodies: bodies}
}

// Assemble builds a fresh, validated document tree for slug. It returns an
// error matching ErrNotFound for unknown slugs and a *compose.MalformedNodeError
// for a defective body.
func (a *Assembler) Assemble(slug string) (*compose.Document, error) {
	record, ok := a.store.Lookup(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}

	doc := &compose.Document{
		Slug:  record.Slug,
		Title: record.Title,
		Intro: record.Description,
		Tags:  record.DisplayTags,
		Role:  compose.Build(record.Role),
		Links: links(record.Links),
		Body:  compose.Build(a.body(slug)),
	}
	if record.Media.Path != "" {
		doc.Hero = &compose.Media{
			Src:    record.Media.Path,
			Alt:    record.Media.Alt,
			Width:  record.Media.Width,
			Height: record.Media.Height,
		}
	}

	if err := compose.Validate(doc); err != nil {
		return nil, fmt.Errorf("failed to assemble %s: %w", slug, err)
	}
	return doc, nil
}

// ValidateAll assembles every record once and joins the failures.
func (a *Assembler) ValidateAll() error {
	var errs []error
	for _, record := range a.store.All() {
		if _, err := a.Assemble(record.Slug); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Assembler) body(slug string) []compose.Spec {
	if a.bodies == nil {
		return nil
	}
	return a.bodies.Body(slug)
}

func links(l catalog.Links) []compose.Link {
	var out []compose.Link
	if l.Storybook != "" {
		out = append(out, compose.Link{Label: "Storybook", Href: l.Storybook, Icon: compose.IconStorybook})
	}
	if l.GitHub != "" {
		out = append(out, compose.Link{Label: "GitHub", Href: l.GitHub, Icon: compose.IconGitHub})
	}
	if l.Figma != "" {
		out = append(out, compose.Link{Label: "Figma", Href: l.Figma, Icon: compose.IconFigma})
	}
	return out
}
