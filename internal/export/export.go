// Package export renders a group's settlement as an Excel workbook.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

const (
	SummarySheet        = "Summary"
	ReimbursementsSheet = "Reimbursements"
	StraightSheet       = "Straight"
	LeaseSheet          = "Lease"
)

// Report is everything rendered into the workbook.
type Report struct {
	Group  *models.Group
	Result calculator.SettlementBalances
	Stats  calculator.Stats
}

// Workbook builds the settlement workbook: a summary of public balances and
// totals, then one sheet per settlement mode.
func Workbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	w := &writer{f: f, names: participantNames(r.Group)}
	var err error
	w.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	w.money, err = f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	steps := []struct {
		sheet string
		fill  func(string, Report) error
	}{
		{SummarySheet, w.summary},
		{ReimbursementsSheet, w.reimbursements},
		{StraightSheet, w.straight},
		{LeaseSheet, w.lease},
	}
	for _, step := range steps {
		if _, err := f.NewSheet(step.sheet); err != nil {
			return nil, fmt.Errorf("failed to create %s sheet: %w", step.sheet, err)
		}
		if err := step.fill(step.sheet, r); err != nil {
			return nil, fmt.Errorf("failed to fill %s sheet: %w", step.sheet, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SummarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename names the export of group taken at now.
func Filename(group *models.Group, now time.Time) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(group.Name, "_"), "_")
	if name == "" {
		name = "group"
	}
	return fmt.Sprintf("%s_Settlement_%s.xlsx", name, now.Format("2006-01-02"))
}

// Amount converts minor units to a major-unit decimal, e.g. 1050 -> 10.50.
func Amount(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

type writer struct {
	f      *excelize.File
	names  map[string]string
	header int
	money  int
}

func (w *writer) name(id string) string {
	if n, ok := w.names[id]; ok {
		return n
	}
	return id
}

// row writes values starting at column A of row. Amounts passed as
// decimal.Decimal are written as numbers with the money style.
func (w *writer) row(sheet string, row int, values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if d, ok := v.(decimal.Decimal); ok {
			if err := w.f.SetCellFloat(sheet, cell, d.InexactFloat64(), 2, 64); err != nil {
				return err
			}
			if err := w.f.SetCellStyle(sheet, cell, cell, w.money); err != nil {
				return err
			}
			continue
		}
		if err := w.f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) headerRow(sheet string, row int, headers ...string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := w.row(sheet, row, values...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	if err := w.f.SetCellStyle(sheet, first, last, w.header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return w.f.SetColWidth(sheet, "A", lastCol, 18)
}

func (w *writer) summary(sheet string, r Report) error {
	if err := w.headerRow(sheet, 1, "Participant", "Paid", "Paid For", "Net Balance"); err != nil {
		return err
	}

	row := 2
	for _, p := range r.Group.Participants {
		b := r.Result.Normal.PublicBalances[p.ID]
		if err := w.row(sheet, row, p.Name, Amount(b.Paid), Amount(b.PaidFor), Amount(b.Total)); err != nil {
			return err
		}
		row++
	}

	row++
	totals := []struct {
		label  string
		amount int64
	}{
		{"Total Owed", r.Result.Totals.TotalOwed},
		{"Net", r.Result.Totals.Net},
		{"Total Group Spending", r.Stats.TotalGroupSpending},
	}
	for _, t := range totals {
		if err := w.row(sheet, row, t.label, Amount(t.amount)); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (w *writer) reimbursements(sheet string, r Report) error {
	if err := w.headerRow(sheet, 1, "From", "To", "Amount"); err != nil {
		return err
	}
	for i, re := range r.Result.Normal.Reimbursements {
		if err := w.row(sheet, i+2, w.name(re.From), w.name(re.To), Amount(re.Amount)); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) straight(sheet string, r Report) error {
	if err := w.headerRow(sheet, 1, "Expense", "From", "To", "Amount"); err != nil {
		return err
	}
	for i, item := range r.Result.Straight {
		if err := w.row(sheet, i+2, item.ExpenseTitle, w.name(item.From), w.name(item.To), Amount(item.Amount)); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) lease(sheet string, r Report) error {
	if err := w.headerRow(sheet, 1, "Item", "Owner", "Participant", "Buy-in", "Buy-in Paid", "Buy-back", "Buy-back State"); err != nil {
		return err
	}

	row := 2
	for _, item := range r.Result.Lease {
		buyback := make(map[string]int64, len(item.BuybackBreakdown))
		for _, b := range item.BuybackBreakdown {
			buyback[b.ParticipantID] = b.Amount
		}

		// One line per participant appearing in either breakdown.
		seen := make(map[string]bool)
		var ids []string
		for _, b := range item.BuyInBreakdown {
			seen[b.ParticipantID] = true
			ids = append(ids, b.ParticipantID)
		}
		for _, b := range item.BuybackBreakdown {
			if !seen[b.ParticipantID] {
				ids = append(ids, b.ParticipantID)
			}
		}

		buyIn := make(map[string]calculator.BuyInShare, len(item.BuyInBreakdown))
		for _, b := range item.BuyInBreakdown {
			buyIn[b.ParticipantID] = b
		}

		for _, id := range ids {
			var buyInAmount any = ""
			var paid any = ""
			if b, ok := buyIn[id]; ok {
				buyInAmount = Amount(b.Amount)
				paid = yesNo(b.Paid)
			}
			var buybackAmount any = ""
			if amount, ok := buyback[id]; ok {
				buybackAmount = Amount(amount)
			}

			err := w.row(sheet, row, item.ItemName, w.name(item.OwnerID), w.name(id),
				buyInAmount, paid, buybackAmount, string(item.BuybackState()))
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func participantNames(group *models.Group) map[string]string {
	names := make(map[string]string, len(group.Participants))
	for _, p := range group.Participants {
		names[p.ID] = p.Name
	}
	return names
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
