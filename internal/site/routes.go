package site

import (
	"github.com/sunil-gumatimath/react-router/internal/jobs"
	"github.com/sunil-gumatimath/react-router/internal/loader"
	"github.com/sunil-gumatimath/react-router/internal/route"
)

// Page identifiers. Each names an embedded template in internal/render.
const (
	PageRootLayout    = "root-layout"
	PageHome          = "home"
	PageProducts      = "products"
	PageAbout         = "about"
	PageContactLayout = "contact-layout"
	PageContactInfo   = "contact-info"
	PageContactForm   = "contact-form"
	PageJobsLayout    = "jobs-layout"
	PageJobs          = "jobs"
	PageJobDetails    = "job-details"
	PageError         = "error"
	PageNotFound      = "not-found"
)

// Routes declares the route table of the site. The jobs subtree fetches its
// data from src and renders the error page in place of the jobs layout when
// a loader fails.
func Routes(src jobs.Source) (*route.Tree, error) {
	return route.New(route.Root(PageRootLayout, route.WithChildren(
		route.IndexPage(PageHome),
		route.Page("products", PageProducts),
		route.Page("about", PageAbout),
		route.Page("contact", PageContactLayout, route.WithChildren(
			route.Page("info", PageContactInfo),
			route.Page("form", PageContactForm),
		)),
		route.Page("jobs", PageJobsLayout,
			route.WithErrorBoundary(PageError),
			route.WithChildren(
				route.IndexPage(PageJobs, route.WithLoader(loader.Jobs(src))),
				route.Page(":id", PageJobDetails, route.WithLoader(loader.JobDetails(src))),
			),
		),
		route.CatchAll(PageNotFound),
	)))
}
