package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/interior-ledger/internal"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Aggregates", func() {
	const userID int64 = 1

	var (
		ctx     context.Context
		store   *MockStore
		service *ledger.Service
		kitchen *projectDatamodel.Project
		lobby   *projectDatamodel.Project
	)

	clock := func() time.Time { return day(2024, 8, 15) }

	seed := func(projectID int64, typ string, amount float64, category string, date time.Time) {
		store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: projectID, Type: typ, Amount: amount, Category: category, Date: date})
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = NewMockStore()
		kitchen = store.AddProject(userID, "Kitchen", projectDatamodel.StatusInProgress, 50000)
		lobby = store.AddProject(userID, "Lobby", projectDatamodel.StatusInProgress, 80000)
		service = ledger.NewService(store, &mockCategories{}, nil, testLogger(),
			ledger.WithClock(clock), ledger.WithCurrency("INR"))

		seed(kitchen.ID, "Income", 20000, "Advance", day(2024, 1, 10))
		seed(kitchen.ID, "Income", 5000, "Design Fee", day(2024, 3, 2))
		seed(kitchen.ID, "Expense", 4000, "Tiles", day(2024, 1, 20))
		seed(kitchen.ID, "Expense", 1500, "Paint", day(2024, 3, 5))
		seed(kitchen.ID, "Expense", 6000, "Tiles", day(2023, 11, 5))

		src := lobby.ID
		store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: kitchen.ID, Type: "Income", Amount: 10000, Category: "Lobby",
			IsIncomeFromOtherProject: true, SourceProjectID: &src, Date: day(2024, 3, 9)})
		seed(lobby.ID, "Expense", 10000, "Project Payment", day(2024, 3, 9))
	})

	Describe("project totals", func() {
		It("should separate recognized and gross income", func() {
			recognized, err := service.RecognizedIncome(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(recognized).To(Equal(25000.0))

			gross, err := service.GrossIncome(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(gross).To(Equal(35000.0))
		})

		It("should build a summary with net balance over gross income", func() {
			summary, err := service.Summary(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TotalExpenses).To(Equal(11500.0))
			Expect(summary.NetBalance).To(Equal(35000.0 - 11500.0))
			Expect(summary.Currency).To(Equal("INR"))
			Expect(summary.LastUpdated).To(Equal(day(2024, 3, 9)))
		})

		It("should compute remaining budget against recognized income", func() {
			remaining, err := service.RemainingBudget(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(Equal(25000.0))
		})

		It("should return identity values for a project without entries", func() {
			empty := store.AddProject(userID, "Empty", projectDatamodel.StatusInProgress, 100)

			total, err := service.TotalExpenses(ctx, userID, empty.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())

			breakdown, err := service.CategoryBreakdown(ctx, userID, empty.ID, "Expense")
			Expect(err).NotTo(HaveOccurred())
			Expect(breakdown).To(BeEmpty())

			summary, err := service.Summary(ctx, userID, empty.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.LastUpdated).To(Equal(clock()))
		})

		It("should not return another user's figures", func() {
			total, err := service.GrossIncome(ctx, 2, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())

			_, err = service.RemainingBudget(ctx, 2, kitchen.ID)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})

		DescribeTable("should require the scoping keys",
			func(call func() error, fields int) {
				appErr, ok := internal.IsAppError(call())
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
				Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(fields))
			},
			Entry("recognized income", func() error { _, err := service.RecognizedIncome(ctx, 0, 0); return err }, 2),
			Entry("summary", func() error { _, err := service.Summary(ctx, userID, 0); return err }, 1),
			Entry("monthly", func() error { _, err := service.MonthlyBreakdown(ctx, 0, kitchen.ID, 2024); return err }, 1),
			Entry("yearly", func() error { _, err := service.YearlyBreakdown(ctx, 0); return err }, 1),
			Entry("category", func() error { _, err := service.CategoryBreakdown(ctx, userID, kitchen.ID, "Refund"); return err }, 1),
			Entry("user totals", func() error { _, err := service.UserTotals(ctx, 0); return err }, 1),
		)

		It("should wrap store failures as internal errors", func() {
			store.failFind = true
			_, err := service.Summary(ctx, userID, kitchen.ID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
			Expect(errors.Is(err, errStoreDown)).To(BeTrue())
		})
	})

	Describe("MonthlyBreakdown", func() {
		It("should always return twelve months in calendar order", func() {
			rows, err := service.MonthlyBreakdown(ctx, userID, kitchen.ID, 2024)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(12))
			for i, row := range rows {
				Expect(row.Month).To(Equal(i + 1))
			}

			Expect(rows[0]).To(Equal(ledger.MonthlyRow{Month: 1, Income: 20000, Expenses: 4000, Balance: 16000}))
			Expect(rows[2]).To(Equal(ledger.MonthlyRow{Month: 3, Income: 15000, Expenses: 1500, Balance: 13500}))
			Expect(rows[1]).To(Equal(ledger.MonthlyRow{Month: 2}))
			Expect(rows[10]).To(Equal(ledger.MonthlyRow{Month: 11}))
		})

		It("should use the current year when none is given", func() {
			rows, err := service.MonthlyBreakdown(ctx, userID, kitchen.ID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Income).To(Equal(20000.0))
		})

		It("should return twelve zero rows for a year without data", func() {
			rows, err := service.MonthlyBreakdown(ctx, userID, kitchen.ID, 1999)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(12))
			for _, row := range rows {
				Expect(row.Income).To(BeZero())
				Expect(row.Expenses).To(BeZero())
			}
		})
	})

	It("should list only years with data, oldest first", func() {
		rows, err := service.YearlyBreakdown(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Year).To(Equal(2023))
		Expect(rows[0].Expenses).To(Equal(6000.0))
		Expect(rows[1].Year).To(Equal(2024))
		Expect(rows[1].Income).To(Equal(35000.0))
		Expect(rows[1].Expenses).To(Equal(15500.0))
	})

	It("should sort category totals descending", func() {
		rows, err := service.CategoryBreakdown(ctx, userID, kitchen.ID, "Expense")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([]ledger.CategoryTotal{
			{Category: "Tiles", Total: 10000},
			{Category: "Paint", Total: 1500},
		}))
	})

	Describe("UserTotals", func() {
		It("should roll up every project", func() {
			totals, err := service.UserTotals(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(totals.TotalProjects).To(Equal(2))
			Expect(totals.TotalIncome).To(Equal(35000.0))
			Expect(totals.TotalExpenses).To(Equal(21500.0))
			Expect(totals.NetBalance).To(Equal(13500.0))
			Expect(totals.ExpensesByCategory).To(HaveKeyWithValue("Tiles", 10000.0))
			Expect(totals.IncomeByCategory).To(HaveKeyWithValue("Lobby", 10000.0))

			Expect(totals.MonthlyBreakdown[0].Year).To(Equal(2024))
			Expect(totals.MonthlyBreakdown[0].Month).To(Equal(3))
			last := totals.MonthlyBreakdown[len(totals.MonthlyBreakdown)-1]
			Expect(last.Year).To(Equal(2023))
			Expect(last.Balance).To(Equal(-6000.0))

			Expect(totals.RecentTransactions[0].ProjectName).To(Or(Equal("Kitchen"), Equal("Lobby")))
			Expect(totals.RecentTransactions[0].Date).To(Equal(day(2024, 3, 9)))
		})

		It("should keep only the ten most recent transactions", func() {
			for i := 1; i <= 12; i++ {
				seed(lobby.ID, "Expense", float64(i), fmt.Sprintf("Item %d", i), day(2024, 6, i))
			}

			totals, err := service.UserTotals(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(totals.RecentTransactions).To(HaveLen(10))
			Expect(totals.RecentTransactions[0].Category).To(Equal("Item 12"))
			Expect(totals.RecentTransactions[0].ProjectName).To(Equal("Lobby"))
			for i := 1; i < len(totals.RecentTransactions); i++ {
				Expect(totals.RecentTransactions[i-1].Date).To(BeTemporally(">=", totals.RecentTransactions[i].Date))
			}
		})

		It("should return identity values for a user without data", func() {
			totals, err := service.UserTotals(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(totals.TotalProjects).To(BeZero())
			Expect(totals.RecentTransactions).To(BeEmpty())
			Expect(totals.MonthlyBreakdown).To(BeEmpty())
			Expect(totals.IncomeByCategory).To(BeEmpty())
		})
	})

	Describe("ProjectBalanceSheet", func() {
		It("should group entries by category with budget remaining", func() {
			sheet, err := service.ProjectBalanceSheet(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Project.Name).To(Equal("Kitchen"))
			Expect(sheet.Summary.GrossIncome).To(Equal(35000.0))
			Expect(sheet.Summary.RecognizedIncome).To(Equal(25000.0))
			Expect(sheet.Summary.BudgetRemaining).To(Equal(25000.0))
			Expect(sheet.Expenses.Total).To(Equal(11500.0))
			Expect(sheet.Expenses.Categories[0].Category).To(Equal("Tiles"))
			Expect(sheet.Expenses.Categories[0].Entries).To(HaveLen(2))
			Expect(sheet.Income.Categories[0].Category).To(Equal("Advance"))
			Expect(sheet.GeneratedAt).To(Equal(clock()))
		})

		It("should filter to the selected categories", func() {
			sheet, err := service.ProjectBalanceSheet(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())

			filtered := sheet.OnlyCategories([]string{"Paint", "Advance"})
			Expect(filtered.Expenses.Total).To(Equal(1500.0))
			Expect(filtered.Income.Total).To(Equal(20000.0))
			Expect(filtered.Summary).To(Equal(sheet.Summary))
			Expect(sheet.Expenses.Categories).To(HaveLen(2))
		})

		It("should fail for an unknown project", func() {
			_, err := service.ProjectBalanceSheet(ctx, userID, 99)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})
	})

	It("should return the same results when read twice", func() {
		first, err := service.UserTotals(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		second, err := service.UserTotals(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.TotalIncome).To(Equal(first.TotalIncome))
		Expect(second.MonthlyBreakdown).To(Equal(first.MonthlyBreakdown))
		Expect(len(store.entries)).To(Equal(7))
	})
})
