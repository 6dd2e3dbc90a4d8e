package store

import (
	"context"
	"testing"
	"time"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
)

func TestCadetCommentAppend(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)
	cadet, _ := CreateCadet(ctx, database, org.ID, "Maik", "Lehmann")

	AppendCadetComment(ctx, database, cadet.ID, "first")
	AppendCadetComment(ctx, database, cadet.ID, "second")

	got, _ := GetCadet(ctx, database, org.ID, cadet.ID)
	if got.Comment != "first\nsecond" {
		t.Errorf("expected two comment lines, got %q", got.Comment)
	}
}

func TestDeleteCadetHidesCadet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)
	cadet, _ := CreateCadet(ctx, database, org.ID, "Antje", "Fried")

	if err := DeleteCadet(ctx, database, org.ID, cadet.ID, "admin", time.Now()); err != nil {
		t.Fatalf("DeleteCadet: %v", err)
	}
	got, _ := GetCadet(ctx, database, org.ID, cadet.ID)
	if got != nil {
		t.Error("expected deleted cadet to be hidden")
	}
	ref, _ := GetCadetRef(ctx, database, cadet.ID)
	if ref == nil || ref.Lastname != "Fried" {
		t.Errorf("expected ref to survive deletion, got %+v", ref)
	}
	cadets, _ := ListCadets(ctx, database, org.ID)
	if len(cadets) != 0 {
		t.Errorf("expected no cadets listed, got %d", len(cadets))
	}
}
