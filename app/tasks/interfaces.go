package tasks

import (
	"github.com/lysyi3m/folio/app/pages"
)

// TaskSchedulerInterface is what the HTTP layer needs from the scheduler.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	Pending() int
}

// PageRenderer builds site pages by path; *pages.Builder satisfies it.
type PageRenderer interface {
	Paths() []string
	Build(path string) (*pages.Page, error)
}

// FeedRenderer builds the RSS feed page; *feed.Builder satisfies it.
type FeedRenderer interface {
	Page() (*pages.Page, error)
}
