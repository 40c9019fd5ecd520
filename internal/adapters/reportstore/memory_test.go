package reportstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
)

func TestInMemoryArchive_RoundTrip(t *testing.T) {
	archive := NewInMemoryArchive()
	ctx := context.Background()

	if _, err := archive.Latest(ctx); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound on an empty archive, got %v", err)
	}

	for i, name := range []string{"A", "B", "C"} {
		if _, err := archive.Save(ctx, reportFixture(name, i+1)); err != nil {
			t.Fatalf("save %s failed: %v", name, err)
		}
	}

	latest, err := archive.Latest(ctx)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.ProjectName != "C" {
		t.Errorf("expected the newest record, got %q", latest.ProjectName)
	}

	got, err := archive.Get(ctx, latest.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ProjectName != "C" {
		t.Errorf("unexpected record %+v", got)
	}

	summaries, err := archive.List(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ProjectName != "C" || summaries[1].ProjectName != "B" {
		t.Errorf("expected newest first, got %q then %q", summaries[0].ProjectName, summaries[1].ProjectName)
	}
}

func TestInMemoryArchive_GetMissing(t *testing.T) {
	archive := NewInMemoryArchive()
	if _, err := archive.Get(context.Background(), "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
