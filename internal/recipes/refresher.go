package recipes

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Refresher reloads the catalog on a cron schedule, picking up changes made
// to the store by other processes.
type Refresher struct {
	cron    *cron.Cron
	catalog *Catalog
	spec    string
}

// NewRefresher creates a Refresher firing on spec, e.g. "@every 1h".
func NewRefresher(catalog *Catalog, spec string) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		catalog: catalog,
		spec:    spec,
	}
}

// Start registers the job and starts the scheduler.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		if ctx.Err() != nil {
			return
		}
		r.catalog.ReloadAsync()
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", r.spec, err)
	}
	r.cron.Start()
	log.Printf("[catalog] refresh scheduled: %s", r.spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	log.Println("[catalog] refresh stopped")
}
