package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"pricebook/internal/modkit"
	"pricebook/internal/modkit/module"
	"pricebook/internal/platform/config"
	"pricebook/internal/platform/logger"
	"pricebook/internal/platform/store"

	diffsdom "pricebook/internal/services/diffs/domain"
	diffsmod "pricebook/internal/services/diffs/module"

	booksmod "pricebook/internal/services/books/module"
	changesmod "pricebook/internal/services/changes/module"
	reviewmod "pricebook/internal/services/review/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientRole: "pricebook",
			ClientTag:  "diff",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		oldID   = flag.String("old", "", "old book id (uuid)")
		newID   = flag.String("new", "", "new book id (uuid)")
		workers = flag.Int("workers", 2, "concurrency (>=1)")
		fuzzy   = flag.Int("fuzzy", 70, "fuzzy accept threshold (1-100)")
		noFuzzy = flag.Bool("no-fuzzy", false, "exact matching only")
		dryRun  = flag.Bool("dry-run", false, "compute but do not persist")
	)
	flag.Parse()

	if *oldID == "" || *newID == "" {
		log.Fatal("old/new book ids are required")
	}

	// Pass CLI flags into CORE_DIFF_* so the module can read its own config
	mustSetEnv("CORE_DIFF_WORKERS", strconv.Itoa(*workers))
	mustSetEnv("CORE_DIFF_FUZZY_THRESHOLD", strconv.Itoa(*fuzzy))
	mustSetEnv("CORE_DIFF_ENABLE_FUZZY", map[bool]string{true: "0", false: "1"}[*noFuzzy])

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Build dependency modules first
	bm := booksmod.New(deps)
	cm := changesmod.New(deps)
	rm := reviewmod.New(deps)

	// Build the diffs module with ports injected from deps modules
	dm := diffsmod.New(
		deps,
		diffsmod.Options{
			Workers:        *workers,
			FuzzyThreshold: *fuzzy,
			DisableFuzzy:   *noFuzzy,
		},
		modkit.WithPorts(diffsdom.Ports{
			Books:   module.MustPortsOf[booksmod.Ports](bm).Reader,
			Changes: module.MustPortsOf[changesmod.Ports](cm).Writer,
			Review:  module.MustPortsOf[reviewmod.Ports](rm).Writer,
		}),
	)

	// Register ports
	module.Register(bm.Name(), bm.Ports())
	module.Register(cm.Name(), cm.Ports())
	module.Register(rm.Name(), rm.Ports())
	module.Register(dm.Name(), dm.Ports())

	// Kick the runner
	ports := dm.Ports().(diffsmod.Ports)
	run, res, err := ports.Runner.Run(context.Background(), diffsdom.RunInput{
		OldBookID: *oldID,
		NewBookID: *newID,
		DryRun:    *dryRun,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("diff failed")
	}

	ev := l.Info().
		Str("run_id", run.ID).
		Str("status", run.Status).
		Int("matches", run.Matches).
		Int("changes", run.Changes).
		Int("review_items", run.ReviewItems).
		Int("unprocessed", run.Unprocessed)
	for kind, n := range res.CountsByKind {
		ev = ev.Int(kind, n)
	}
	ev.Msg("diff complete")
}
