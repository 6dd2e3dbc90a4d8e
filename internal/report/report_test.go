package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

func readRows(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	return rows
}

func view(typeName string, number int, size string) model.ItemView {
	return model.ItemView{Item: model.Item{Number: number}, TypeName: typeName, SizeName: size}
}

func TestStorageUnits(t *testing.T) {
	five := 5
	units := []model.StorageUnitWithItems{
		{
			StorageUnit: model.StorageUnit{Name: "Kiste 01", Capacity: &five, IsReserve: true},
			Items:       []model.ItemView{view("Jacket", 1101, "M"), view("Jacket", 1102, "L")},
		},
		{StorageUnit: model.StorageUnit{Name: "Kiste 02"}},
	}

	var buf bytes.Buffer
	if err := StorageUnits(&buf, units); err != nil {
		t.Fatalf("StorageUnits: %v", err)
	}

	rows := readRows(t, &buf)
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d: %v", len(rows), rows)
	}
	if rows[0][0] != "Storage unit" || rows[0][4] != "Number" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "Kiste 01" || rows[1][1] != "5" || rows[1][2] != "yes" || rows[1][4] != "1101" {
		t.Errorf("unexpected first item row %v", rows[1])
	}
	if rows[3][0] != "Kiste 02" || rows[3][1] != "" || len(rows[3]) != 3 {
		t.Errorf("unexpected empty unit row %v", rows[3])
	}
}

func TestCadetKit(t *testing.T) {
	cadet := model.Cadet{Firstname: "Antje", Lastname: "Fried"}
	types := []model.UniformType{
		{ID: "t-jacket", Name: "Jacket", IssuedDefault: 1},
		{ID: "t-cap", Name: "Cap", IssuedDefault: 1},
		{ID: "t-badge", Name: "Badge"},
	}
	kit := model.HolderKit{
		"t-jacket": {view("Jacket", 1101, "M"), view("Jacket", 1102, "L")},
	}

	var buf bytes.Buffer
	if err := CadetKit(&buf, cadet, types, kit); err != nil {
		t.Fatalf("CadetKit: %v", err)
	}

	rows := readRows(t, &buf)
	if rows[0][1] != "Antje Fried" {
		t.Errorf("expected cadet name, got %v", rows[0])
	}
	// Rows 4 and 5 list the jackets, row 6 the missing cap; the badge
	// is not expected and not held, so it is skipped.
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d: %v", len(rows), rows)
	}
	if rows[3][0] != "Jacket" || rows[3][2] != "2" || rows[3][3] != "1101" {
		t.Errorf("unexpected jacket row %v", rows[3])
	}
	if rows[4][0] != "" || rows[4][3] != "1102" {
		t.Errorf("unexpected second jacket row %v", rows[4])
	}
	if rows[5][0] != "Cap" || rows[5][2] != "0" {
		t.Errorf("unexpected cap row %v", rows[5])
	}
}
