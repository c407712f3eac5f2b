package pages

import (
	"strings"

	"github.com/lysyi3m/folio/app/content"
)

const MenuID = "nav-toggle"

type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Nav is the navigation state of one page. It is built per render from the
// current path; the mobile menu is a checkbox toggle so there is nothing to
// remember between pages.
type Nav struct {
	Items   []NavItem
	Current string
	MenuID  string
}

func NewNav(links []content.NavLink, current string) Nav {
	nav := Nav{Current: current, MenuID: MenuID}
	for _, link := range links {
		nav.Items = append(nav.Items, NavItem{
			Label:  link.Label,
			Href:   link.Href,
			Active: isActive(link.Href, current),
		})
	}
	return nav
}

func isActive(href, current string) bool {
	if href == current {
		return true
	}
	return href != "/" && strings.HasPrefix(current, strings.TrimSuffix(href, "/")+"/")
}
