package custody

import (
	"context"
	"errors"
	"testing"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

func TestCreateItems(t *testing.T) {
	f := newFixture(t)

	items, conflict, err := f.engine.CreateItems(f.ctx, f.caller, CreateItemsRequest{
		TypeID: f.jacket.ID, Numbers: []int{1, 2, 3}, Comment: "new batch",
	})
	if err != nil || conflict != nil {
		t.Fatalf("CreateItems: conflict=%v err=%v", conflict, err)
	}
	if len(items) != 3 || !items[0].Active || items[2].Comment != "new batch" {
		t.Errorf("unexpected items %+v", items)
	}

	_, conflict, err = f.engine.CreateItems(f.ctx, f.caller, CreateItemsRequest{
		TypeID: f.jacket.ID, Numbers: []int{3, 4, 1},
	})
	if err != nil {
		t.Fatalf("CreateItems: %v", err)
	}
	if conflict == nil || conflict.Code != CodeNumbersInUse {
		t.Fatalf("expected numbers_in_use, got %+v", conflict)
	}
	if len(conflict.Numbers) != 2 || conflict.Numbers[0] != 1 || conflict.Numbers[1] != 3 {
		t.Errorf("expected [1 3], got %v", conflict.Numbers)
	}
	if got, _ := store.GetItemByNumber(f.ctx, f.db, f.jacket.ID, 4); got != nil {
		t.Error("conflict must not create item 4")
	}

	_, conflict, _ = f.engine.CreateItems(f.ctx, f.caller, CreateItemsRequest{
		TypeID: f.jacket.ID, Numbers: []int{9, 9},
	})
	if conflict == nil || conflict.Numbers[0] != 9 {
		t.Errorf("expected duplicate 9 reported, got %+v", conflict)
	}
}

func TestCreateItemsValidatesCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.caller.OrganisationID

	s, _ := store.CreateSize(ctx, f.db, org, "S", 0)
	m, _ := store.CreateSize(ctx, f.db, org, "M", 1)
	xl, _ := store.CreateSize(ctx, f.db, org, "XL", 2)
	small, _ := store.CreateSizeList(ctx, f.db, org, "Small", []string{s.ID, m.ID})
	large, _ := store.CreateSizeList(ctx, f.db, org, "Large", []string{xl.ID})

	shirt, _ := store.CreateType(ctx, f.db, org, store.NewType{
		Name: "Shirt", Acronym: "SH", UsesGenerations: true, UsesSizes: true, DefaultSizeListID: &small.ID,
	})
	std, _ := store.CreateGeneration(ctx, f.db, shirt.ID, "Standard", nil, false)
	gen, _ := store.CreateGeneration(ctx, f.db, shirt.ID, "Big", &large.ID, false)
	jacketGen, _ := store.CreateGeneration(ctx, f.db, f.jacket.ID, "Other", nil, false)

	tests := []struct {
		name    string
		gen     *string
		size    *string
		wantErr bool
	}{
		{"default list size", &std.ID, &m.ID, false},
		{"size outside default list", &std.ID, &xl.ID, true},
		{"generation list size", &gen.ID, &xl.ID, false},
		{"size outside generation list", &gen.ID, &s.ID, true},
		{"generation of other type", &jacketGen.ID, &m.ID, true},
		{"missing generation", nil, &m.ID, true},
		{"missing size", &std.ID, nil, true},
		{"missing both", nil, nil, true},
	}
	for i, tt := range tests {
		_, conflict, err := f.engine.CreateItems(ctx, f.caller, CreateItemsRequest{
			TypeID: shirt.ID, GenerationID: tt.gen, SizeID: tt.size, Numbers: []int{100 + i},
		})
		if conflict != nil {
			t.Errorf("%s: unexpected conflict %+v", tt.name, conflict)
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("%s: expected ErrInvalidCatalog, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}

	// The jacket uses neither generations nor sizes.
	_, _, err := f.engine.CreateItems(ctx, f.caller, CreateItemsRequest{TypeID: f.jacket.ID, SizeID: &m.ID, Numbers: []int{1}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog for sized jacket, got %v", err)
	}
}
