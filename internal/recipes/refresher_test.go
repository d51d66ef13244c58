package recipes

import (
	"context"
	"testing"
)

func TestRefresherRejectsInvalidSpec(t *testing.T) {
	r := NewRefresher(NewCatalog(&stubSource{}), "every now and then")
	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("expected invalid spec error")
	}
}

func TestRefresherStartStop(t *testing.T) {
	catalog := NewCatalog(&stubSource{})
	r := NewRefresher(catalog, "@every 1h")
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(r.cron.Entries()) != 1 {
		t.Fatalf("expected one scheduled entry, got %d", len(r.cron.Entries()))
	}
	r.Stop()
}
