// Package report renders custody overviews as XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StorageUnits writes one row per stored item, grouped by unit. Empty
// units get a single row without item columns.
func StorageUnits(w io.Writer, units []model.StorageUnitWithItems) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Storage units"); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	sheet = "Storage units"

	header := []any{"Storage unit", "Capacity", "Reserve", "Type", "Number", "Size", "Generation"}
	rows := [][]any{header}
	for _, u := range units {
		capacity := any("")
		if u.Capacity != nil {
			capacity = *u.Capacity
		}
		if len(u.Items) == 0 {
			rows = append(rows, []any{u.Name, capacity, yesNo(u.IsReserve)})
			continue
		}
		for _, it := range u.Items {
			rows = append(rows, []any{u.Name, capacity, yesNo(u.IsReserve), it.TypeName, it.Number, it.SizeName, it.GenerationName})
		}
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return write(f, w)
}

// CadetKit writes the items a cadet holds, ordered like types.
func CadetKit(w io.Writer, cadet model.Cadet, types []model.UniformType, kit model.HolderKit) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	rows := [][]any{
		{"Cadet", cadet.FullName()},
		{},
		{"Type", "Expected", "Held", "Number", "Size", "Generation", "Comment"},
	}
	for _, t := range types {
		items := kit[t.ID]
		if len(items) == 0 {
			if t.IssuedDefault > 0 {
				rows = append(rows, []any{t.Name, t.IssuedDefault, 0})
			}
			continue
		}
		for i, it := range items {
			row := []any{"", "", "", it.Number, it.SizeName, it.GenerationName, it.Comment}
			if i == 0 {
				row[0], row[1], row[2] = t.Name, t.IssuedDefault, len(items)
			}
			rows = append(rows, row)
		}
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return write(f, w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return nil
}

func write(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
