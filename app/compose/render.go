package compose

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lysyi3m/folio/app/reveal"
)

const RoleHeading = "My role"

// Renderer turns node trees into HTML. Every grid child and timeline step
// gets a reveal controller from the scene; the controller's state and timing
// are emitted as data attributes for the client-side observer. A Renderer
// tracks heading ids, so use one per document.
type Renderer struct {
	scene *reveal.Scene
	ids   map[string]int
}

func NewRenderer(scene *reveal.Scene) *Renderer {
	if scene == nil {
		scene = reveal.NewScene(reveal.DefaultConfig(), nil, nil)
	}
	return &Renderer{scene: scene, ids: make(map[string]int)}
}

func (r *Renderer) Scene() *reveal.Scene { return r.scene }

// Render writes the HTML for nodes to w, in source order.
func (r *Renderer) Render(w io.Writer, nodes ...Node) error {
	for _, n := range nodes {
		el, err := r.Node(n)
		if err != nil {
			return err
		}
		if err := html.Render(w, el); err != nil {
			return fmt.Errorf("failed to render %s: %w", n.Kind(), err)
		}
	}
	return nil
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(nodes ...Node) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, nodes...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderInline writes inline content without a wrapping element.
func RenderInline(w io.Writer, content Inline) error {
	for _, span := range content {
		if err := html.Render(w, spanNode(span)); err != nil {
			return fmt.Errorf("failed to render inline content: %w", err)
		}
	}
	return nil
}

// Node builds the HTML element for n.
func (r *Renderer) Node(n Node) (*html.Node, error) {
	switch v := n.(type) {
	case *Document:
		return r.document(v)
	case *Section:
		return r.section(v)
	case *Paragraph:
		return r.paragraph(v), nil
	case *List:
		return r.list(v), nil
	case *Grid:
		return r.grid(v)
	case *ImageBlock:
		return r.image(v), nil
	case *VideoBlock:
		return r.video(v), nil
	case *FeaturedWrapper:
		return r.featured(v)
	case *FeaturedItem:
		return r.featuredItem(v), nil
	case *ProcessTimeline:
		return r.timeline(v), nil
	case nil:
		return nil, fmt.Errorf("cannot render nil node")
	default:
		return nil, fmt.Errorf("cannot render node kind %s", n.Kind())
	}
}

func (r *Renderer) document(d *Document) (*html.Node, error) {
	article := element(atom.Article, attr("class", "document"), attr("data-slug", d.Slug))

	header := element(atom.Header, attr("class", "document__header"))
	header.AppendChild(withText(element(atom.H1, attr("class", "document__title")), d.Title))
	if d.Intro != "" {
		header.AppendChild(withText(element(atom.P, attr("class", "document__intro")), d.Intro))
	}
	if len(d.Tags) > 0 {
		tags := element(atom.Ul, attr("class", "tags"), attr("aria-label", "Tags"))
		for _, tag := range d.Tags {
			tags.AppendChild(withText(element(atom.Li, attr("class", "tag")), tag))
		}
		header.AppendChild(tags)
	}
	if d.Hero != nil && d.Hero.Src != "" {
		hero := element(atom.Figure, attr("class", "document__hero"))
		hero.AppendChild(imageElement(d.Hero.Src, d.Hero.Alt, d.Hero.Width, d.Hero.Height, false))
		header.AppendChild(hero)
	}
	article.AppendChild(header)

	if len(d.Role) > 0 {
		id := r.uniqueID(Anchor(RoleHeading))
		role := element(atom.Section, attr("class", "document__role"), attr("aria-labelledby", id))
		role.AppendChild(withText(element(atom.H2, attr("id", id)), RoleHeading))
		if err := r.appendNodes(role, d.Role); err != nil {
			return nil, err
		}
		article.AppendChild(role)
	}

	if len(d.Links) > 0 {
		nav := element(atom.Nav, attr("class", "document__links"), attr("aria-label", "Project links"))
		list := element(atom.Ul)
		for _, link := range d.Links {
			a := element(atom.A,
				attr("href", link.Href),
				attr("target", "_blank"),
				attr("rel", "noopener noreferrer"),
				attr("title", link.Label+" (new tab)"),
			)
			if icon := iconElement(link.Icon); icon != nil {
				a.AppendChild(icon)
			}
			a.AppendChild(withText(element(atom.Span, attr("class", "link__label")), link.Label))
			li := element(atom.Li)
			li.AppendChild(a)
			list.AppendChild(li)
		}
		nav.AppendChild(list)
		article.AppendChild(nav)
	}

	body := element(atom.Div, attr("class", "document__body"))
	if err := r.appendNodes(body, d.Body); err != nil {
		return nil, err
	}
	article.AppendChild(body)
	return article, nil
}

var headingAtoms = map[int]atom.Atom{1: atom.H1, 2: atom.H2, 3: atom.H3, 4: atom.H4}

func (r *Renderer) section(s *Section) (*html.Node, error) {
	id := r.uniqueID(Anchor(s.Heading))
	section := element(atom.Section,
		attr("class", presentationClass("section", s.Attrs)),
		attr("aria-labelledby", id),
	)

	level, ok := headingAtoms[s.Level]
	if !ok {
		level = atom.H2
	}
	heading := withText(element(level, attr("id", id), attr("class", "section__heading")), s.Heading)
	if s.HeadingHidden {
		heading.Attr = append(heading.Attr, attr("class", "sr-only"))
		heading.Attr = mergeClass(heading.Attr)
	}
	section.AppendChild(heading)

	if err := r.appendNodes(section, s.Children); err != nil {
		return nil, err
	}
	return section, nil
}

func (r *Renderer) paragraph(p *Paragraph) *html.Node {
	el := element(atom.P, attr("class", "paragraph"))
	appendInline(el, p.Content)
	return el
}

func (r *Renderer) list(l *List) *html.Node {
	class := "list list--plain"
	if l.Bulleted {
		class = "list list--bullets"
	}
	ul := element(atom.Ul, attr("class", class))
	for _, item := range l.Items {
		li := element(atom.Li)
		appendInline(li, item)
		ul.AppendChild(li)
	}
	return ul
}

func (r *Renderer) grid(g *Grid) (*html.Node, error) {
	el := element(atom.Div,
		attr("class", fmt.Sprintf("%s grid--cols-%d", presentationClass("grid", g.Attrs), g.Columns)),
	)

	narrow := VisualPositions(g.Children, Narrow)
	wide := VisualPositions(g.Children, Wide)
	group := r.scene.Group(len(g.Children))

	for i, child := range g.Children {
		item := element(atom.Div,
			attr("class", "grid__item"),
			attr("style", fmt.Sprintf("--order-narrow:%d;--order-wide:%d", narrow[i], wide[i])),
		)
		item.Attr = append(item.Attr, revealAttrs(group.Item(i))...)

		childEl, err := r.Node(child)
		if err != nil {
			return nil, err
		}
		item.AppendChild(childEl)
		el.AppendChild(item)
	}
	return el, nil
}

func (r *Renderer) image(b *ImageBlock) *html.Node {
	class := "media media--image"
	if b.Inverted {
		class += " media--inverted"
	}
	fig := element(atom.Figure, attr("class", class))
	img := imageElement(b.Src, b.Alt, b.Width, b.Height, true)
	caption := captionElement(b.Title, b.Description)

	if b.Inverted && caption != nil {
		fig.AppendChild(caption)
		fig.AppendChild(img)
		return fig
	}
	fig.AppendChild(img)
	if caption != nil {
		fig.AppendChild(caption)
	}
	return fig
}

func (r *Renderer) video(v *VideoBlock) *html.Node {
	fig := element(atom.Figure, attr("class", "media media--video"))
	video := element(atom.Video,
		attr("src", v.Src),
		attr("aria-label", v.AriaLabel),
		attr("autoplay", ""),
		attr("muted", ""),
		attr("loop", ""),
		attr("playsinline", ""),
		attr("preload", "metadata"),
	)
	fig.AppendChild(video)
	if caption := captionElement(v.Title, v.Description); caption != nil {
		fig.AppendChild(caption)
	}
	return fig
}

func (r *Renderer) featured(f *FeaturedWrapper) (*html.Node, error) {
	id := r.uniqueID(Anchor(f.Heading))
	attrs := f.Attrs
	attrs.Width = WidthFull
	section := element(atom.Section,
		attr("class", presentationClass("featured", attrs)),
		attr("aria-labelledby", id),
	)
	section.AppendChild(withText(element(atom.H2, attr("id", id), attr("class", "featured__heading")), f.Heading))
	if err := r.appendNodes(section, f.Children); err != nil {
		return nil, err
	}
	return section, nil
}

func (r *Renderer) featuredItem(f *FeaturedItem) *html.Node {
	el := element(atom.Article, attr("class", "featured__item"))
	el.AppendChild(withText(element(atom.H3, attr("class", "featured__item-heading")), f.Heading))
	body := element(atom.P)
	appendInline(body, f.Content)
	el.AppendChild(body)
	return el
}

func (r *Renderer) timeline(t *ProcessTimeline) *html.Node {
	id := r.uniqueID(Anchor(t.Heading))
	section := element(atom.Section,
		attr("class", presentationClass("timeline", t.Attrs)),
		attr("aria-labelledby", id),
	)
	section.AppendChild(withText(element(atom.H2, attr("id", id), attr("class", "timeline__heading")), t.Heading))

	steps := element(atom.Ol, attr("class", "timeline__steps"))
	group := r.scene.Group(len(t.Steps))
	for i, step := range t.Steps {
		li := element(atom.Li, attr("class", "timeline__step"))
		li.Attr = append(li.Attr, revealAttrs(group.Item(i))...)

		if icon := iconElement(step.Icon); icon != nil {
			icon.Attr = mergeClass(append(icon.Attr, attr("class", "timeline__icon")))
			li.AppendChild(icon)
		}
		li.AppendChild(withText(element(atom.H3, attr("class", "timeline__title")), step.Title))
		if step.Description != "" {
			li.AppendChild(withText(element(atom.P, attr("class", "timeline__description")), step.Description))
		}
		if i < len(t.Steps)-1 {
			li.AppendChild(element(atom.Span, attr("class", "timeline__connector"), attr("aria-hidden", "true")))
		}
		steps.AppendChild(li)
	}
	section.AppendChild(steps)
	return section
}

func (r *Renderer) appendNodes(parent *html.Node, nodes []Node) error {
	for _, n := range nodes {
		el, err := r.Node(n)
		if err != nil {
			return err
		}
		parent.AppendChild(el)
	}
	return nil
}

func (r *Renderer) uniqueID(base string) string {
	if base == "" {
		base = "section"
	}
	r.ids[base]++
	if n := r.ids[base]; n > 1 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}

func revealAttrs(c *reveal.Controller) []html.Attribute {
	cfg := c.Config()
	return []html.Attribute{
		attr("data-reveal", c.State().String()),
		attr("data-reveal-index", strconv.Itoa(c.Index())),
		attr("data-reveal-delay", strconv.FormatInt(c.Delay().Milliseconds(), 10)),
		attr("data-reveal-duration", strconv.FormatInt(cfg.Duration.Milliseconds(), 10)),
		attr("data-reveal-threshold", strconv.FormatFloat(cfg.Threshold, 'f', -1, 64)),
	}
}

func presentationClass(base string, a Attrs) string {
	classes := []string{base}
	if a.Background != BackgroundDefault {
		classes = append(classes, base+"--bg-"+string(a.Background))
	}
	if a.Width == WidthFull {
		classes = append(classes, base+"--full")
	}
	return strings.Join(classes, " ")
}

func imageElement(src, alt string, width, height int, lazy bool) *html.Node {
	img := element(atom.Img, attr("src", src), attr("alt", alt))
	if width > 0 && height > 0 {
		img.Attr = append(img.Attr,
			attr("width", strconv.Itoa(width)),
			attr("height", strconv.Itoa(height)),
		)
	}
	if lazy {
		img.Attr = append(img.Attr, attr("loading", "lazy"))
	}
	return img
}

func captionElement(title string, description Inline) *html.Node {
	if title == "" && description.IsEmpty() {
		return nil
	}
	caption := element(atom.Figcaption, attr("class", "media__caption"))
	if title != "" {
		caption.AppendChild(withText(element(atom.H3, attr("class", "media__title")), title))
	}
	if !description.IsEmpty() {
		p := element(atom.P, attr("class", "media__description"))
		appendInline(p, description)
		caption.AppendChild(p)
	}
	return caption
}

func iconElement(icon Icon) *html.Node {
	symbol, label, ok := icon.Glyph()
	if !ok {
		return nil
	}
	return withText(element(atom.Span,
		attr("class", "icon icon--"+string(icon)),
		attr("aria-hidden", "true"),
		attr("data-label", label),
	), symbol)
}

func appendInline(parent *html.Node, content Inline) {
	for _, span := range content {
		parent.AppendChild(spanNode(span))
	}
}

func spanNode(span Span) *html.Node {
	var el *html.Node
	switch span.Style {
	case StyleStrong:
		el = element(atom.Strong)
	case StyleEmphasis:
		el = element(atom.Em)
	case StyleCode:
		el = element(atom.Code)
	case StyleLink:
		el = element(atom.A, attr("href", span.Href))
		if strings.HasPrefix(span.Href, "http://") || strings.HasPrefix(span.Href, "https://") {
			el.Attr = append(el.Attr, attr("target", "_blank"), attr("rel", "noopener noreferrer"))
		}
	default:
		if len(span.Children) == 0 {
			return &html.Node{Type: html.TextNode, Data: span.Text}
		}
		el = element(atom.Span)
	}

	if len(span.Children) > 0 {
		appendInline(el, span.Children)
		return el
	}
	return withText(el, span.Text)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(el *html.Node, text string) *html.Node {
	el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return el
}

// mergeClass folds repeated class attributes into one.
func mergeClass(attrs []html.Attribute) []html.Attribute {
	var classes []string
	out := attrs[:0]
	for _, a := range attrs {
		if a.Key == "class" {
			classes = append(classes, a.Val)
			continue
		}
		out = append(out, a)
	}
	if len(classes) > 0 {
		out = append(out, attr("class", strings.Join(classes, " ")))
	}
	return out
}
