package api

import (
	"time"

	"github.com/lysyi3m/folio/app/catalog"
	"github.com/lysyi3m/folio/app/pages"
)

// PageBuilder renders site pages; *pages.Builder satisfies it.
type PageBuilder interface {
	Build(path string) (*pages.Page, error)
	NotFound(path string) (*pages.Page, error)
}

var _ PageBuilder = (*pages.Builder)(nil)

// FeedBuilder renders the RSS feed; *feed.Builder satisfies it.
type FeedBuilder interface {
	Page() (*pages.Page, error)
}

// PageScheduler queues background renders.
type PageScheduler interface {
	RenderPage(path string) error
	Pending() int
}

type ProjectResponse struct {
	Slug             string         `json:"slug"`
	Title            string         `json:"title"`
	ShortTitle       string         `json:"short_title,omitempty"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description,omitempty"`
	Tags             []string       `json:"tags"`
	DisplayTags      []string       `json:"display_tags"`
	Featured         bool           `json:"featured"`
	URL              string         `json:"url"`
	Media            *MediaResponse `json:"media,omitempty"`
	Links            *LinksResponse `json:"links,omitempty"`
	Published        *time.Time     `json:"published,omitempty"`
}

type MediaResponse struct {
	Path   string `json:"path"`
	Alt    string `json:"alt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type LinksResponse struct {
	GitHub    string `json:"github,omitempty"`
	Storybook string `json:"storybook,omitempty"`
	Figma     string `json:"figma,omitempty"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

type TopicResponse struct {
	Tag      string            `json:"tag"`
	Heading  string            `json:"heading"`
	Featured *ProjectResponse  `json:"featured"`
	Related  []ProjectResponse `json:"related"`
}

type TopicListResponse struct {
	Topics []TopicResponse `json:"topics"`
	Total  int             `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func newProjectResponse(record catalog.Record) ProjectResponse {
	resp := ProjectResponse{
		Slug:             record.Slug,
		Title:            record.Title,
		ShortTitle:       record.ShortTitle,
		Description:      record.Description,
		ShortDescription: record.ShortDescription,
		Tags:             nonNil(record.Tags),
		DisplayTags:      nonNil(record.DisplayTags),
		Featured:         record.IsFeatured(),
		URL:              pages.ProjectsPath + record.Slug,
	}
	if record.Media.Path != "" {
		resp.Media = &MediaResponse{
			Path:   record.Media.Path,
			Alt:    record.Media.Alt,
			Width:  record.Media.Width,
			Height: record.Media.Height,
		}
	}
	if !record.Links.IsZero() {
		resp.Links = &LinksResponse{
			GitHub:    record.Links.GitHub,
			Storybook: record.Links.Storybook,
			Figma:     record.Links.Figma,
		}
	}
	if !record.Published.IsZero() {
		published := record.Published
		resp.Published = &published
	}
	return resp
}

func newProjectList(records []catalog.Record) ProjectListResponse {
	projects := make([]ProjectResponse, 0, len(records))
	for _, record := range records {
		projects = append(projects, newProjectResponse(record))
	}
	return ProjectListResponse{Projects: projects, Total: len(projects)}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
