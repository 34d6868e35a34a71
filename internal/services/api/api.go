// Package api provides the HTTP API for the application
package api

import (
	"pricebook/internal/platform/config"
	"pricebook/internal/platform/logger"
	phttp "pricebook/internal/platform/net/http"
	"pricebook/internal/platform/store"

	"pricebook/internal/modkit"
	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/modkit/module"
	"pricebook/internal/modkit/swaggerkit"

	apibooks "pricebook/internal/services/api/books/module"
	apidiffs "pricebook/internal/services/api/diffs/module"
	metamod "pricebook/internal/services/api/meta/module"
	apireview "pricebook/internal/services/api/review/module"
	apistats "pricebook/internal/services/api/stats/module"

	// Worker modules own the ports the API layer calls
	workerbooks "pricebook/internal/services/books/module"
	workerchanges "pricebook/internal/services/changes/module"
	diffsdom "pricebook/internal/services/diffs/domain"
	workerdiffs "pricebook/internal/services/diffs/module"
	workerreview "pricebook/internal/services/review/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules; modules read their own CORE_* prefixes
	// from the root namespace, not the api-scoped one
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: config.New(),
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the WORKER modules first and extract their ports
	books := workerbooks.New(deps)
	booksPorts := module.MustPortsOf[workerbooks.Ports](books)

	changes := workerchanges.New(deps)
	changesPorts := module.MustPortsOf[workerchanges.Ports](changes)

	review := workerreview.New(deps)
	reviewPorts := module.MustPortsOf[workerreview.Ports](review)

	// The diff runner depends on the other workers' ports
	diffs := workerdiffs.New(deps, workerdiffs.Options{}, modkit.WithPorts(diffsdom.Ports{
		Books:   booksPorts.Reader,
		Changes: changesPorts.Writer,
		Review:  reviewPorts.Writer,
	}))
	diffsPorts := module.MustPortsOf[workerdiffs.Ports](diffs)

	// Inject worker ports into the thin API modules
	apiBooks := apibooks.New(deps, modkit.WithPorts(apibooks.Ports{
		Reader: booksPorts.Reader,
		Writer: booksPorts.Writer,
	}))
	apiDiffs := apidiffs.New(deps, modkit.WithPorts(apidiffs.Ports{
		Runner:  diffsPorts.Runner,
		Query:   diffsPorts.Query,
		Changes: changesPorts.Query,
	}))
	apiReview := apireview.New(deps, modkit.WithPorts(apireview.Ports{
		Query:  reviewPorts.Query,
		Decide: reviewPorts.Decide,
	}))
	apiStats := apistats.New(deps, modkit.WithPorts(apistats.Ports{
		Changes: changesPorts.Query,
	}))

	mods := []module.Module{
		metamod.New(deps),
		books,
		changes,
		review,
		diffs,
		apiBooks,
		apiDiffs,
		apiReview,
		apiStats,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
