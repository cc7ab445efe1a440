package ledger_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/interior-ledger/internal"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TransferIncome", func() {
	const userID int64 = 1

	var (
		ctx       context.Context
		store     *MockStore
		publisher *recordingPublisher
		kitchen   *projectDatamodel.Project
		lobby     *projectDatamodel.Project
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = NewMockStore()
		publisher = &recordingPublisher{}
		kitchen = store.AddProject(userID, "Kitchen", projectDatamodel.StatusInProgress, 50000)
		lobby = store.AddProject(userID, "Lobby", projectDatamodel.StatusInProgress, 80000)
		store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: kitchen.ID, Type: "Income", Amount: 20000, Category: "Advance", Date: day(2024, 3, 1)})
	})

	Context("with a transactional store", func() {
		var service *ledger.Service

		BeforeEach(func() {
			service = ledger.NewService(&TxMockStore{MockStore: store}, &mockCategories{}, publisher, testLogger())
		})

		It("should book an income on Kitchen and a Project Payment on Lobby", func() {
			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{
				CurrentProjectID:  kitchen.ID,
				SourceProjectName: "Lobby",
				Amount:            10000,
				Date:              ptrTime(day(2024, 3, 10)),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(ledger.OutcomeBothSucceeded))

			Expect(result.Income.ProjectID).To(Equal(kitchen.ID))
			Expect(result.Income.Amount).To(Equal(10000.0))
			Expect(result.Income.Category).To(Equal("Lobby"))
			Expect(result.Income.IsIncomeFromOtherProject).To(BeTrue())
			Expect(*result.Income.SourceProjectID).To(Equal(lobby.ID))

			Expect(result.Expense.ProjectID).To(Equal(lobby.ID))
			Expect(result.Expense.Type).To(Equal("Expense"))
			Expect(result.Expense.Category).To(Equal("Project Payment"))
			Expect(result.Expense.Description).To(Equal("Payment to Kitchen"))
			Expect(result.Expense.Amount).To(Equal(result.Income.Amount))
			Expect(result.Expense.Date).To(Equal(result.Income.Date))
			Expect(result.Income.TransferID).NotTo(BeNil())
			Expect(result.Expense.TransferID).To(Equal(result.Income.TransferID))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeTransferCompleted))
		})

		It("should leave Kitchen's recognized income and remaining budget unchanged", func() {
			before, err := service.RemainingBudget(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(before).To(Equal(30000.0))

			_, err = service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 10000})
			Expect(err).NotTo(HaveOccurred())

			recognized, err := service.RecognizedIncome(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(recognized).To(Equal(20000.0))

			gross, err := service.GrossIncome(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(gross).To(Equal(30000.0))

			after, err := service.RemainingBudget(ctx, userID, kitchen.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))

			lobbyExpenses, err := service.TotalExpenses(ctx, userID, lobby.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(lobbyExpenses).To(Equal(10000.0))
		})

		It("should keep every transfer paired", func() {
			for _, amount := range []float64{100, 100, 250} {
				_, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: amount})
				Expect(err).NotTo(HaveOccurred())
			}

			unpaired, err := service.VerifyTransferPairs(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unpaired).To(BeEmpty())
		})

		It("should roll back both writes when the expense fails", func() {
			store.failOnCreate = 2

			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 10000})
			Expect(err).To(HaveOccurred())
			Expect(result.Outcome).To(Equal(ledger.OutcomeSecondFailedRolledBack))
			Expect(store.EntriesOf(lobby.ID)).To(BeEmpty())
			Expect(store.EntriesOf(kitchen.ID)).To(HaveLen(1))
			Expect(publisher.events).To(BeEmpty())
		})

		It("should report first_failed when the income cannot be written", func() {
			store.failOnCreate = 1

			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 10000})
			Expect(err).To(HaveOccurred())
			Expect(result.Outcome).To(Equal(ledger.OutcomeFirstFailed))
		})
	})

	Context("with a store that cannot run transactions", func() {
		var service *ledger.Service

		BeforeEach(func() {
			service = ledger.NewService(store, &mockCategories{}, publisher, testLogger())
		})

		It("should delete the income when the expense fails", func() {
			store.failOnCreate = 2

			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 10000})
			Expect(result.Outcome).To(Equal(ledger.OutcomeSecondFailedCompensated))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypePartialWrite))
			Expect(appErr.Code).To(Equal(internal.ErrCodePartialTransfer))
			Expect(errors.Is(err, errStoreDown)).To(BeTrue())

			Expect(store.EntriesOf(kitchen.ID)).To(HaveLen(1))
			Expect(store.EntriesOf(lobby.ID)).To(BeEmpty())
		})

		It("should report the orphaned income when compensation also fails", func() {
			store.failOnCreate = 2
			store.failDelete = true

			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 10000})
			Expect(result.Outcome).To(Equal(ledger.OutcomeSecondFailedUncompensated))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			failure := appErr.Details.(ledger.TransferFailure)
			Expect(failure.IncomeEntryID).To(Equal(result.Income.ID))

			unpaired, err := service.VerifyTransferPairs(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unpaired).To(HaveLen(1))
			Expect(unpaired[0].Income.ID).To(Equal(result.Income.ID))
		})
	})

	Context("when the transaction fails to commit", func() {
		It("should report commit_failed and leave no rows behind", func() {
			service := ledger.NewService(&TxMockStore{MockStore: store, failCommit: true}, &mockCategories{}, publisher, testLogger())

			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 10000})
			Expect(errors.Is(err, errCommit)).To(BeTrue())
			Expect(result.Outcome).To(Equal(ledger.OutcomeCommitFailed))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(ledger.TransferFailure).Outcome).To(Equal(ledger.OutcomeCommitFailed))
			Expect(store.EntriesOf(lobby.ID)).To(BeEmpty())
			Expect(store.EntriesOf(kitchen.ID)).To(HaveLen(1))
			Expect(publisher.events).To(BeEmpty())
		})
	})

	Describe("lookups", func() {
		var service *ledger.Service

		BeforeEach(func() {
			service = ledger.NewService(&TxMockStore{MockStore: store}, &mockCategories{}, publisher, testLogger())
		})

		It("should fail when the source project does not exist", func() {
			_, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Attic", Amount: 10})
			Expect(errors.Is(err, internal.ErrSourceProjectNotFound)).To(BeTrue())
		})

		It("should not resolve a source project of another user", func() {
			store.AddProject(2, "Attic", projectDatamodel.StatusInProgress, 0)
			_, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Attic", Amount: 10})
			Expect(errors.Is(err, internal.ErrSourceProjectNotFound)).To(BeTrue())
		})

		It("should fail when the current project does not exist", func() {
			_, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: 99, SourceProjectName: "Lobby", Amount: 10})
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})

		It("should refuse a transfer from a project to itself", func() {
			_, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Kitchen", Amount: 10})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSameProject))
		})

		It("should require a positive amount", func() {
			_, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: -5})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(store.EntriesOf(lobby.ID)).To(BeEmpty())
		})
	})

	Describe("VerifyTransferPairs", func() {
		It("should flag an income whose paired expense was removed", func() {
			service := ledger.NewService(&TxMockStore{MockStore: store}, &mockCategories{}, nil, testLogger())
			result, err := service.TransferIncome(ctx, userID, ledger.TransferDTO{CurrentProjectID: kitchen.ID, SourceProjectName: "Lobby", Amount: 700})
			Expect(err).NotTo(HaveOccurred())

			Expect(store.DeleteEntry(ctx, result.Expense.ID)).To(Succeed())

			unpaired, err := service.VerifyTransferPairs(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unpaired).To(HaveLen(1))
			Expect(unpaired[0].Reason).To(ContainSubstring("no matching expense"))
		})

		It("should pair a linked income only with the expense of the same transfer", func() {
			src := lobby.ID
			linked := "t-linked"
			other := "t-other"
			store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: kitchen.ID, Type: "Income", Amount: 50, Category: "Lobby",
				IsIncomeFromOtherProject: true, SourceProjectID: &src, TransferID: &linked, Date: day(2024, 5, 1)})
			store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: lobby.ID, Type: "Expense", Amount: 50, Category: "Project Payment",
				TransferID: &other, Date: day(2024, 5, 1)})

			service := ledger.NewService(store, &mockCategories{}, nil, testLogger())
			unpaired, err := service.VerifyTransferPairs(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unpaired).To(HaveLen(1))
		})

		It("should not let one expense pair two incomes", func() {
			src := lobby.ID
			for i := 0; i < 2; i++ {
				store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: kitchen.ID, Type: "Income", Amount: 50, Category: "Lobby",
					IsIncomeFromOtherProject: true, SourceProjectID: &src, Date: day(2024, 5, 1)})
			}
			store.Seed(&entryDatamodel.Entry{UserID: userID, ProjectID: lobby.ID, Type: "Expense", Amount: 50, Category: "Project Payment", Date: day(2024, 5, 1)})

			service := ledger.NewService(store, &mockCategories{}, nil, testLogger())
			unpaired, err := service.VerifyTransferPairs(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unpaired).To(HaveLen(1))
		})
	})
})
