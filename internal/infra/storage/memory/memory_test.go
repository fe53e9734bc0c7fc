package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/vietddude/sentinel/internal/core/domain"
)

func TestSaveIncident_ReplacesSameID(t *testing.T) {
	a := NewArchive()
	ctx := context.Background()

	inc := &domain.Incident{ID: "inc-1", TargetID: "job-service", Status: domain.IncidentOpen}
	if err := a.SaveIncident(ctx, inc); err != nil {
		t.Fatalf("SaveIncident failed: %v", err)
	}

	inc.Status = domain.IncidentResolved
	if err := a.SaveIncident(ctx, inc); err != nil {
		t.Fatalf("SaveIncident failed: %v", err)
	}

	stored, err := a.RecentIncidents(ctx, 10)
	if err != nil {
		t.Fatalf("RecentIncidents failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(stored))
	}
	if stored[0].Status != domain.IncidentResolved {
		t.Errorf("expected replaced incident, got %s", stored[0].Status)
	}
}

func TestRecentIncidents_NewestFirst(t *testing.T) {
	a := NewArchive()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		inc := &domain.Incident{ID: fmt.Sprintf("inc-%d", i), TargetID: "postgres"}
		if err := a.SaveIncident(ctx, inc); err != nil {
			t.Fatalf("SaveIncident failed: %v", err)
		}
	}

	stored, err := a.RecentIncidents(ctx, 2)
	if err != nil {
		t.Fatalf("RecentIncidents failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(stored))
	}
	if stored[0].ID != "inc-2" || stored[1].ID != "inc-1" {
		t.Errorf("unexpected order: %s, %s", stored[0].ID, stored[1].ID)
	}
}

func TestSaveIncident_StoresCopy(t *testing.T) {
	a := NewArchive()
	ctx := context.Background()

	inc := &domain.Incident{ID: "inc-1", TargetID: "redis", Title: "original"}
	a.SaveIncident(ctx, inc)
	inc.Title = "mutated"

	stored, _ := a.RecentIncidents(ctx, 1)
	if stored[0].Title != "original" {
		t.Errorf("caller mutation leaked into archive: %s", stored[0].Title)
	}
}
