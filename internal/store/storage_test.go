package store

import (
	"context"
	"testing"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

func TestStorageUnitsWithItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)
	typ, _ := CreateType(ctx, database, org.ID, NewType{Name: "Jacket", Acronym: "JA"})

	capacity := 5
	box, err := CreateStorageUnit(ctx, database, org.ID, "Kiste 02", "Keller", &capacity, false)
	if err != nil {
		t.Fatalf("CreateStorageUnit: %v", err)
	}
	CreateStorageUnit(ctx, database, org.ID, "Kiste 01", "", nil, true)

	for _, n := range []int{30, 10, 20} {
		CreateItem(ctx, database, model.Item{TypeID: typ.ID, Number: n, Active: true, StorageUnitID: &box.ID})
	}

	units, err := ListStorageUnitsWithItems(ctx, database, org.ID)
	if err != nil {
		t.Fatalf("ListStorageUnitsWithItems: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].Name != "Kiste 01" || len(units[0].Items) != 0 || units[0].Capacity != nil {
		t.Errorf("unexpected first unit %+v", units[0])
	}
	if units[1].Capacity == nil || *units[1].Capacity != 5 {
		t.Errorf("expected capacity 5, got %v", units[1].Capacity)
	}
	got := units[1].Items
	if len(got) != 3 || got[0].Number != 10 || got[1].Number != 20 || got[2].Number != 30 {
		t.Errorf("expected items ordered by number, got %+v", got)
	}
}

func TestStorageUnitNameUniquePerOrganisation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)
	other, _ := CreateOrganisation(ctx, database, "Other", "OT")

	CreateStorageUnit(ctx, database, org.ID, "Kiste", "", nil, false)
	if _, err := CreateStorageUnit(ctx, database, org.ID, "Kiste", "", nil, false); err == nil {
		t.Error("expected duplicate name to fail")
	}
	if _, err := CreateStorageUnit(ctx, database, other.ID, "Kiste", "", nil, false); err != nil {
		t.Errorf("same name in another organisation should succeed: %v", err)
	}
}

func TestRemoveItemsFromStorageUnitCountsOnlyMembers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)
	typ, _ := CreateType(ctx, database, org.ID, NewType{Name: "Jacket", Acronym: "JA"})
	a, _ := CreateStorageUnit(ctx, database, org.ID, "A", "", nil, false)
	b, _ := CreateStorageUnit(ctx, database, org.ID, "B", "", nil, false)

	inA, _ := CreateItem(ctx, database, model.Item{TypeID: typ.ID, Number: 1, Active: true, StorageUnitID: &a.ID})
	inB, _ := CreateItem(ctx, database, model.Item{TypeID: typ.ID, Number: 2, Active: true, StorageUnitID: &b.ID})

	n, err := RemoveItemsFromStorageUnit(ctx, database, a.ID, []string{inA.ID, inB.ID})
	if err != nil {
		t.Fatalf("RemoveItemsFromStorageUnit: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}
	count, _ := CountItemsInStorageUnit(ctx, database, b.ID)
	if count != 1 {
		t.Errorf("expected item in B untouched, got count %d", count)
	}
}
