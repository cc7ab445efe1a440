package export

import (
	"fmt"

	"github.com/frahmantamala/interior-ledger/internal/ledger"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetSummary  = "Summary"
	SheetIncome   = "Income"
	SheetExpenses = "Expenses"

	dateLayout = "2006-01-02"
)

// BuildWorkbook lays out a project balance sheet over three sheets: a summary
// and one sheet per entry type, grouped by category with subtotals.
func BuildWorkbook(sheet *ledger.BalanceSheet) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeSummary(f, sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSection(f, SheetIncome, sheet.Income); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSection(f, SheetExpenses, sheet.Expenses); err != nil {
		f.Close()
		return nil, err
	}

	index, err := f.GetSheetIndex(SheetSummary)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("find summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	return f, nil
}

func writeSummary(f *excelize.File, sheet *ledger.BalanceSheet) error {
	currency := sheet.Currency
	rows := [][]interface{}{
		{"Project", sheet.Project.Name},
		{"Status", sheet.Project.Status},
		{"Description", sheet.Project.Description},
		{"Currency", currency},
		{"Budget", sheet.Project.Budget},
		{"Total Income", sheet.Summary.GrossIncome},
		{"Recognized Income", sheet.Summary.RecognizedIncome},
		{"Total Expenses", sheet.Summary.TotalExpenses},
		{"Net Balance", sheet.Summary.NetBalance},
		{"Budget Remaining", sheet.Summary.BudgetRemaining},
		{"Generated At", sheet.GeneratedAt.Format(dateLayout)},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "B", "B", 30)
}

func writeSection(f *excelize.File, name string, section ledger.TypeSection) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	if err := setRow(f, name, 1, []interface{}{"Category", "Date", "Description", "Amount"}); err != nil {
		return err
	}

	row := 2
	for _, group := range section.Categories {
		for _, e := range group.Entries {
			values := []interface{}{group.Category, e.Date.Format(dateLayout), e.Description, e.Amount}
			if err := setRow(f, name, row, values); err != nil {
				return err
			}
			row++
		}
		if err := setRow(f, name, row, []interface{}{group.Category + " Total", "", "", group.TotalAmount}); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, name, row, []interface{}{"Total", "", "", section.Total}); err != nil {
		return err
	}

	widths := map[string]float64{"A": 24, "B": 12, "C": 40, "D": 14}
	for col, width := range widths {
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
