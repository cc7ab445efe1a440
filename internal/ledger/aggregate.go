package ledger

import (
	"context"
	"sort"
	"time"

	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	"golang.org/x/sync/errgroup"
)

// Aggregates read entries and fold them in memory. None of them write.

func (s *Service) projectEntries(ctx context.Context, userID, projectID int64) ([]*entryDatamodel.Entry, error) {
	if appErr := requireKeys(userID, projectID); appErr != nil {
		return nil, appErr
	}
	rows, err := s.store.FindEntries(ctx, EntryFilter{UserID: userID, ProjectID: projectID})
	if err != nil {
		return nil, errors.NewInternalError("failed to load entries", err)
	}
	return rows, nil
}

func (s *Service) loadProject(ctx context.Context, userID, projectID int64) (*projectDatamodel.Project, error) {
	p, err := s.store.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load project", err)
	}
	if p == nil {
		return nil, errors.ErrProjectNotFound
	}
	return p, nil
}

func recognizedIncome(rows []*entryDatamodel.Entry) float64 {
	var total float64
	for _, r := range rows {
		if r.Type == entry.TypeIncome && !r.IsIncomeFromOtherProject {
			total += r.Amount
		}
	}
	return total
}

func grossIncome(rows []*entryDatamodel.Entry) float64 {
	var total float64
	for _, r := range rows {
		if r.Type == entry.TypeIncome {
			total += r.Amount
		}
	}
	return total
}

func totalExpenses(rows []*entryDatamodel.Entry) float64 {
	var total float64
	for _, r := range rows {
		if r.Type == entry.TypeExpense {
			total += r.Amount
		}
	}
	return total
}

// RecognizedIncome is income counted against the budget: transfers from other
// projects are left out.
func (s *Service) RecognizedIncome(ctx context.Context, userID, projectID int64) (float64, error) {
	rows, err := s.projectEntries(ctx, userID, projectID)
	if err != nil {
		return 0, err
	}
	return recognizedIncome(rows), nil
}

func (s *Service) GrossIncome(ctx context.Context, userID, projectID int64) (float64, error) {
	rows, err := s.projectEntries(ctx, userID, projectID)
	if err != nil {
		return 0, err
	}
	return grossIncome(rows), nil
}

// TotalExpenses counts shared expenses at their distributed amount.
func (s *Service) TotalExpenses(ctx context.Context, userID, projectID int64) (float64, error) {
	rows, err := s.projectEntries(ctx, userID, projectID)
	if err != nil {
		return 0, err
	}
	return totalExpenses(rows), nil
}

func (s *Service) Summary(ctx context.Context, userID, projectID int64) (*Summary, error) {
	rows, err := s.projectEntries(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return s.summarize(rows), nil
}

func (s *Service) summarize(rows []*entryDatamodel.Entry) *Summary {
	gross := grossIncome(rows)
	expenses := totalExpenses(rows)

	var lastUpdated time.Time
	for _, r := range rows {
		if r.UpdatedAt.After(lastUpdated) {
			lastUpdated = r.UpdatedAt
		}
	}
	if lastUpdated.IsZero() {
		lastUpdated = s.now()
	}

	return &Summary{
		GrossIncome:      gross,
		RecognizedIncome: recognizedIncome(rows),
		TotalExpenses:    expenses,
		NetBalance:       gross - expenses,
		Currency:         s.currency,
		LastUpdated:      lastUpdated,
	}
}

// RemainingBudget is budget minus recognized income, not the net balance.
func (s *Service) RemainingBudget(ctx context.Context, userID, projectID int64) (float64, error) {
	if appErr := requireKeys(userID, projectID); appErr != nil {
		return 0, appErr
	}
	p, err := s.loadProject(ctx, userID, projectID)
	if err != nil {
		return 0, err
	}
	rows, err := s.projectEntries(ctx, userID, projectID)
	if err != nil {
		return 0, err
	}
	return p.Budget - recognizedIncome(rows), nil
}

// MonthlyBreakdown always returns twelve rows, January first. Year 0 means
// the current year. Months are taken in UTC.
func (s *Service) MonthlyBreakdown(ctx context.Context, userID, projectID int64, year int) ([]MonthlyRow, error) {
	if appErr := requireKeys(userID, projectID); appErr != nil {
		return nil, appErr
	}
	if year == 0 {
		year = s.now().UTC().Year()
	}

	since := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(1, 0, 0)
	rows, err := s.store.FindEntries(ctx, EntryFilter{UserID: userID, ProjectID: projectID, Since: &since, Until: &until})
	if err != nil {
		return nil, errors.NewInternalError("failed to load entries", err)
	}
	return monthly(rows, year), nil
}

func monthly(rows []*entryDatamodel.Entry, year int) []MonthlyRow {
	out := make([]MonthlyRow, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, r := range rows {
		d := r.Date.UTC()
		if d.Year() != year {
			continue
		}
		row := &out[int(d.Month())-1]
		switch r.Type {
		case entry.TypeIncome:
			row.Income += r.Amount
		case entry.TypeExpense:
			row.Expenses += r.Amount
		}
	}
	for i := range out {
		out[i].Balance = out[i].Income - out[i].Expenses
	}
	return out
}

// YearlyBreakdown spans every project of the user and lists only years with data.
func (s *Service) YearlyBreakdown(ctx context.Context, userID int64) ([]YearlyRow, error) {
	if appErr := requireUser(userID); appErr != nil {
		return nil, appErr
	}
	rows, err := s.store.FindEntries(ctx, EntryFilter{UserID: userID})
	if err != nil {
		return nil, errors.NewInternalError("failed to load entries", err)
	}
	return yearly(rows), nil
}

func yearly(rows []*entryDatamodel.Entry) []YearlyRow {
	byYear := make(map[int]*YearlyRow)
	for _, r := range rows {
		y := r.Date.UTC().Year()
		row, ok := byYear[y]
		if !ok {
			row = &YearlyRow{Year: y}
			byYear[y] = row
		}
		switch r.Type {
		case entry.TypeIncome:
			row.Income += r.Amount
		case entry.TypeExpense:
			row.Expenses += r.Amount
		}
	}

	out := make([]YearlyRow, 0, len(byYear))
	for _, row := range byYear {
		row.Balance = row.Income - row.Expenses
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func (s *Service) CategoryBreakdown(ctx context.Context, userID, projectID int64, entryType string) ([]CategoryTotal, error) {
	v := validation.NewValidator()
	v.Field("user_id", userID).Required()
	v.Field("project_id", projectID).Required()
	v.Field("type", entryType).Required().OneOf(errors.ErrCodeInvalidType, entryDatamodel.Types...)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	rows, err := s.store.FindEntries(ctx, EntryFilter{UserID: userID, ProjectID: projectID, Type: entryType})
	if err != nil {
		return nil, errors.NewInternalError("failed to load entries", err)
	}
	return byCategory(rows, entryType), nil
}

func byCategory(rows []*entryDatamodel.Entry, entryType string) []CategoryTotal {
	totals := make(map[string]float64)
	var order []string
	for _, r := range rows {
		if r.Type != entryType {
			continue
		}
		if _, seen := totals[r.Category]; !seen {
			order = append(order, r.Category)
		}
		totals[r.Category] += r.Amount
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryTotal{Category: c, Total: totals[c]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// UserTotals rolls every project of the user into one dashboard view.
func (s *Service) UserTotals(ctx context.Context, userID int64) (*UserTotals, error) {
	if appErr := requireUser(userID); appErr != nil {
		return nil, appErr
	}

	var (
		projects []*projectDatamodel.Project
		rows     []*entryDatamodel.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.store.ListProjects(gctx, userID, "")
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.store.FindEntries(gctx, EntryFilter{UserID: userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.NewInternalError("failed to load user totals", err)
	}

	names := make(map[int64]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	totals := &UserTotals{
		TotalProjects:      len(projects),
		IncomeByCategory:   make(map[string]float64),
		ExpensesByCategory: make(map[string]float64),
		MonthlyBreakdown:   []PeriodRow{},
		RecentTransactions: []RecentEntry{},
	}

	type period struct{ year, month int }
	series := make(map[period]*PeriodRow)
	for _, r := range rows {
		d := r.Date.UTC()
		key := period{d.Year(), int(d.Month())}
		row, ok := series[key]
		if !ok {
			row = &PeriodRow{Year: key.year, Month: key.month}
			series[key] = row
		}
		switch r.Type {
		case entry.TypeIncome:
			totals.TotalIncome += r.Amount
			totals.IncomeByCategory[r.Category] += r.Amount
			row.Income += r.Amount
		case entry.TypeExpense:
			totals.TotalExpenses += r.Amount
			totals.ExpensesByCategory[r.Category] += r.Amount
			row.Expenses += r.Amount
		}
	}
	totals.NetBalance = totals.TotalIncome - totals.TotalExpenses

	for _, row := range series {
		row.Balance = row.Income - row.Expenses
		totals.MonthlyBreakdown = append(totals.MonthlyBreakdown, *row)
	}
	sort.Slice(totals.MonthlyBreakdown, func(i, j int) bool {
		a, b := totals.MonthlyBreakdown[i], totals.MonthlyBreakdown[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})

	recent := make([]*entryDatamodel.Entry, len(rows))
	copy(recent, rows)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > s.recentLimit {
		recent = recent[:s.recentLimit]
	}
	for _, r := range recent {
		totals.RecentTransactions = append(totals.RecentTransactions, RecentEntry{
			Entry:       entry.FromDataModel(r),
			ProjectName: names[r.ProjectID],
		})
	}

	return totals, nil
}

// ProjectBalanceSheet assembles the per-project report consumed by exporters.
func (s *Service) ProjectBalanceSheet(ctx context.Context, userID, projectID int64) (*BalanceSheet, error) {
	if appErr := requireKeys(userID, projectID); appErr != nil {
		return nil, appErr
	}
	p, err := s.loadProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	rows, err := s.projectEntries(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	sum := s.summarize(rows)
	return &BalanceSheet{
		Project: ProjectDetails{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Budget:      p.Budget,
			Status:      p.Status,
		},
		Summary: BalanceSheetSummary{
			GrossIncome:      sum.GrossIncome,
			RecognizedIncome: sum.RecognizedIncome,
			TotalExpenses:    sum.TotalExpenses,
			NetBalance:       sum.NetBalance,
			BudgetRemaining:  p.Budget - sum.RecognizedIncome,
		},
		Income:      section(rows, entry.TypeIncome),
		Expenses:    section(rows, entry.TypeExpense),
		Currency:    s.currency,
		GeneratedAt: s.now(),
	}, nil
}

func section(rows []*entryDatamodel.Entry, entryType string) TypeSection {
	groups := make(map[string]*CategoryGroup)
	var order []string
	out := TypeSection{Categories: []CategoryGroup{}}
	for _, r := range rows {
		if r.Type != entryType {
			continue
		}
		g, ok := groups[r.Category]
		if !ok {
			g = &CategoryGroup{Category: r.Category}
			groups[r.Category] = g
			order = append(order, r.Category)
		}
		g.TotalAmount += r.Amount
		g.Entries = append(g.Entries, entry.FromDataModel(r))
		out.Total += r.Amount
	}
	for _, c := range order {
		out.Categories = append(out.Categories, *groups[c])
	}
	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].TotalAmount > out.Categories[j].TotalAmount
	})
	return out
}
