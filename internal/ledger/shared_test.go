package ledger_test

import (
	"context"
	"errors"
	"math"

	"github.com/frahmantamala/interior-ledger/internal"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DistributeSharedExpense", func() {
	const userID int64 = 1

	var (
		ctx        context.Context
		store      *MockStore
		categories *mockCategories
		publisher  *recordingPublisher
		service    *ledger.Service
		a, b       *projectDatamodel.Project
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = NewMockStore()
		categories = &mockCategories{}
		publisher = &recordingPublisher{}
		a = store.AddProject(userID, "A", projectDatamodel.StatusInProgress, 0)
		b = store.AddProject(userID, "B", projectDatamodel.StatusInProgress, 0)
		store.AddProject(userID, "Done", projectDatamodel.StatusCompleted, 0)
		store.AddProject(userID, "Pitch", projectDatamodel.StatusUnderDiscussion, 0)
		store.AddProject(2, "Elsewhere", projectDatamodel.StatusInProgress, 0)

		service = ledger.NewService(&TxMockStore{MockStore: store}, categories, publisher, testLogger(),
			ledger.WithBatchIDGenerator(func() string { return "batch-1" }))
	})

	It("should split Rent of 1000 into 500 for A and B", func() {
		result, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Rent"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.ProjectCount).To(Equal(2))
		Expect(result.DistributedAmount).To(Equal(500.0))
		Expect(result.OriginalAmount).To(Equal(1000.0))
		Expect(result.BatchID).To(Equal("batch-1"))

		for _, p := range []*projectDatamodel.Project{a, b} {
			rows := store.EntriesOf(p.ID)
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Type).To(Equal("Expense"))
			Expect(rows[0].Amount).To(Equal(500.0))
			Expect(rows[0].IsSharedExpense).To(BeTrue())
			Expect(*rows[0].OriginalAmount).To(Equal(1000.0))
			Expect(*rows[0].SharedBatchID).To(Equal("batch-1"))
			Expect(rows[0].Description).To(Equal("Shared Expense"))
		}

		Expect(publisher.events).To(HaveLen(1))
		Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeSharedExpenseDistributed))
	})

	It("should keep the split sum within float tolerance", func() {
		store.AddProject(userID, "C", projectDatamodel.StatusInProgress, 0)

		result, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Rent"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Entries).To(HaveLen(3))

		var sum float64
		for _, e := range result.Entries {
			sum += e.Amount
		}
		Expect(math.Abs(sum - 1000)).To(BeNumerically("<", 1e-9))
	})

	It("should suffix the description and register the category", func() {
		result, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 90, Category: " Studio Internet ", Description: "October"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Entries[0].Description).To(Equal("October (Shared Expense)"))
		Expect(result.Entries[0].Category).To(Equal("Studio Internet"))
		Expect(categories.calls).To(ConsistOf(registration{userID, "Expense", "Studio Internet"}))
	})

	It("should fail when no project is in progress", func() {
		a.Status = projectDatamodel.StatusCompleted
		b.Status = projectDatamodel.StatusCompleted

		_, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Rent"})
		Expect(errors.Is(err, internal.ErrNoEligibleProjects)).To(BeTrue())
		Expect(store.entries).To(BeEmpty())
	})

	It("should reject a missing amount or category", func() {
		_, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(2))
	})

	It("should roll back every share when one write fails", func() {
		store.failOnCreate = 2

		_, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Rent"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePartialDistribution))

		failure := appErr.Details.(ledger.DistributionFailure)
		Expect(failure.RolledBack).To(BeTrue())
		Expect(failure.CreatedProjectIDs).To(BeEmpty())
		Expect(failure.FailedProjectID).To(Equal(b.ID))
		Expect(store.entries).To(BeEmpty())
		Expect(categories.calls).To(BeEmpty())
	})

	It("should not register the category when the commit fails", func() {
		service = ledger.NewService(&TxMockStore{MockStore: store, failCommit: true}, categories, publisher, testLogger())

		_, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Studio Internet"})
		Expect(errors.Is(err, errCommit)).To(BeTrue())
		Expect(store.entries).To(BeEmpty())
		Expect(categories.calls).To(BeEmpty())
	})

	It("should name the projects that received a share without transactions", func() {
		service = ledger.NewService(store, categories, publisher, testLogger())
		store.failOnCreate = 2

		_, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Rent"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())

		failure := appErr.Details.(ledger.DistributionFailure)
		Expect(failure.RolledBack).To(BeFalse())
		Expect(failure.CreatedProjectIDs).To(Equal([]int64{a.ID}))
		Expect(failure.FailedProjectID).To(Equal(b.ID))
		Expect(store.EntriesOf(a.ID)).To(HaveLen(1))
	})

	Describe("SharedExpenseGroups", func() {
		It("should group by batch id", func() {
			_, err := service.DistributeSharedExpense(ctx, userID, ledger.SharedExpenseDTO{Amount: 1000, Category: "Rent", Date: ptrTime(day(2024, 1, 1))})
			Expect(err).NotTo(HaveOccurred())

			groups, err := service.SharedExpenseGroups(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(1))
			Expect(groups[0].BatchID).To(Equal("batch-1"))
			Expect(groups[0].ProjectIDs).To(ConsistOf(a.ID, b.ID))
			Expect(groups[0].OriginalAmount).To(Equal(1000.0))
		})

		It("should fall back to date, original amount and category for rows without a batch", func() {
			orig := 600.0
			for _, p := range []*projectDatamodel.Project{a, b} {
				store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: p.ID, Type: "Expense", Amount: 300, Category: "Rent",
					IsSharedExpense: true, OriginalAmount: &orig, Date: day(2023, 6, 1)})
			}
			store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: a.ID, Type: "Expense", Amount: 300, Category: "Utilities",
				IsSharedExpense: true, OriginalAmount: &orig, Date: day(2023, 7, 1)})

			groups, err := service.SharedExpenseGroups(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(2))
			Expect(groups[0].Category).To(Equal("Utilities"))
			Expect(groups[1].ProjectIDs).To(HaveLen(2))
		})
	})
})
