//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"time"

	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/interior-ledger/internal/ledger/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Ledger Store on PostgreSQL", Ordered, Label("integration"), func() {
	var (
		ctx       context.Context
		container *tcpostgres.PostgresContainer
		db        *gorm.DB
		store     *ledgerPostgres.LedgerStore
		userID    int64
		kitchen   *projectDatamodel.Project
	)

	BeforeAll(func() {
		ctx = context.Background()

		var err error
		container, err = tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("interior_ledger"),
			tcpostgres.WithUsername("ledger"),
			tcpostgres.WithPassword("ledger"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
		Expect(err).NotTo(HaveOccurred())
		Expect(goose.UpContext(ctx, sqlDB, "../../../db/migrations")).To(Succeed())

		db, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Raw(
			"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?) RETURNING id",
			"designer", "designer@example.com", "x",
		).Scan(&userID).Error).To(Succeed())

		kitchen = &projectDatamodel.Project{UserID: userID, Name: "Kitchen", Status: projectDatamodel.StatusInProgress, Budget: 50000}
		Expect(db.Create(kitchen).Error).To(Succeed())
		Expect(db.Create(&projectDatamodel.Project{UserID: userID, Name: "Lobby", Status: projectDatamodel.StatusInProgress}).Error).To(Succeed())

		store = ledgerPostgres.NewLedgerStore(db)
	})

	AfterAll(func() {
		if container != nil {
			Expect(container.Terminate(ctx)).To(Succeed())
		}
	})

	It("lists only in-progress projects in id order", func() {
		projects, err := store.ListProjects(ctx, userID, projectDatamodel.StatusInProgress)
		Expect(err).NotTo(HaveOccurred())
		Expect(projects).To(HaveLen(2))
		Expect(projects[0].Name).To(Equal("Kitchen"))
	})

	It("rolls back every write when the transaction fails", func() {
		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(tx ledger.Store) error {
			row := &entryDatamodel.Entry{
				UserID:    userID,
				ProjectID: kitchen.ID,
				Type:      entryDatamodel.TypeExpense,
				Amount:    400,
				Category:  "Paint",
				Date:      time.Now().UTC(),
			}
			if err := tx.CreateEntry(ctx, row); err != nil {
				return err
			}
			return boom
		})
		Expect(errors.Is(err, boom)).To(BeTrue())

		rows, err := store.FindEntries(ctx, ledger.EntryFilter{UserID: userID, ProjectID: kitchen.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("rejects rows carrying both entry flags", func() {
		err := store.CreateEntry(ctx, &entryDatamodel.Entry{
			UserID:                   userID,
			ProjectID:                kitchen.ID,
			Type:                     entryDatamodel.TypeExpense,
			Amount:                   10,
			Category:                 "Paint",
			Date:                     time.Now().UTC(),
			IsSharedExpense:          true,
			IsIncomeFromOtherProject: true,
		})
		Expect(err).To(HaveOccurred())
	})

	It("filters transfer rows and applies the date window", func() {
		jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
		feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
		source := kitchen.ID
		Expect(store.CreateEntry(ctx, &entryDatamodel.Entry{
			UserID: userID, ProjectID: kitchen.ID, Type: entryDatamodel.TypeIncome, Amount: 900,
			Category: "Lobby", Date: jan, IsIncomeFromOtherProject: true, SourceProjectID: &source,
		})).To(Succeed())
		Expect(store.CreateEntry(ctx, &entryDatamodel.Entry{
			UserID: userID, ProjectID: kitchen.ID, Type: entryDatamodel.TypeExpense, Amount: 120,
			Category: "Tiles", Date: feb,
		})).To(Succeed())

		transfers, err := store.FindEntries(ctx, ledger.EntryFilter{UserID: userID, TransfersOnly: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(transfers).To(HaveLen(1))
		Expect(transfers[0].Amount).To(Equal(900.0))

		since := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		recent, err := store.FindEntries(ctx, ledger.EntryFilter{UserID: userID, ProjectID: kitchen.ID, Since: &since})
		Expect(err).NotTo(HaveOccurred())
		Expect(recent).To(HaveLen(1))
		Expect(recent[0].Category).To(Equal("Tiles"))
	})
})
