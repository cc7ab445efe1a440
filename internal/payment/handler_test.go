package payment_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/interior-ledger/internal"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	paymentBillDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/paymentbill"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/interior-ledger/internal/ledger/postgres"
	"github.com/frahmantamala/interior-ledger/internal/payment"
	paymentPostgres "github.com/frahmantamala/interior-ledger/internal/payment/postgres"
	"github.com/frahmantamala/interior-ledger/internal/project"
	projectPostgres "github.com/frahmantamala/interior-ledger/internal/project/postgres"
	"github.com/frahmantamala/interior-ledger/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Payment Bill Handler Integration", func() {
	const userID int64 = 1

	var (
		db      *gorm.DB
		router  *chi.Mux
		kitchen *projectDatamodel.Project
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&projectDatamodel.Project{}, &entryDatamodel.Entry{}, &paymentBillDatamodel.PaymentBill{})).To(Succeed())

		kitchen = &projectDatamodel.Project{UserID: userID, Name: "Kitchen", Status: projectDatamodel.StatusInProgress, Budget: 50000}
		Expect(db.Create(kitchen).Error).To(Succeed())
		lobbyID := kitchen.ID + 100
		Expect(db.Create(&entryDatamodel.Entry{UserID: userID, ProjectID: kitchen.ID, Type: "Income", Amount: 12000, Category: "Advance", Date: time.Now()}).Error).To(Succeed())
		Expect(db.Create(&entryDatamodel.Entry{UserID: userID, ProjectID: kitchen.ID, Type: "Income", Amount: 8000, Category: "Lobby",
			IsIncomeFromOtherProject: true, SourceProjectID: &lobbyID, Date: time.Now()}).Error).To(Succeed())

		projects := project.NewService(projectPostgres.NewProjectRepository(db), nil, slogger)
		engine := ledger.NewService(ledgerPostgres.NewLedgerStore(db), nil, nil, slogger)
		service := payment.NewService(paymentPostgres.NewBillRepository(db), projects, engine, nil, slogger)
		handler := payment.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Post("/payment-bills/generate", handler.GenerateBill)
		router.Get("/payment-bills/{id}", handler.GetBill)
		router.Get("/projects/{id}/payment-bills", handler.ListProjectBills)
	})

	It("should generate, fetch and list bills", func() {
		w := do(http.MethodPost, "/payment-bills/generate", fmt.Sprintf(`{"project_id":%d,"amount_received":5000,"notes":"tiles advance"}`, kitchen.ID))
		Expect(w.Code).To(Equal(http.StatusCreated))

		var bill payment.Bill
		Expect(json.NewDecoder(w.Body).Decode(&bill)).To(Succeed())
		Expect(bill.RemainingAmount).To(Equal(38000.0))

		w = do(http.MethodGet, fmt.Sprintf("/payment-bills/%d", bill.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var receipt payment.Receipt
		Expect(json.NewDecoder(w.Body).Decode(&receipt)).To(Succeed())
		Expect(receipt.Bill.BillNumber).To(Equal(bill.BillNumber))
		Expect(receipt.RecognizedIncome).To(Equal(12000.0))

		w = do(http.MethodGet, fmt.Sprintf("/projects/%d/payment-bills", kitchen.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var bills []payment.Bill
		Expect(json.NewDecoder(w.Body).Decode(&bills)).To(Succeed())
		Expect(bills).To(HaveLen(1))
	})

	It("should respond 404 for unknown projects and bills", func() {
		w := do(http.MethodPost, "/payment-bills/generate", `{"project_id":999,"amount_received":5}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		w = do(http.MethodGet, "/payment-bills/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should respond 400 on a malformed body", func() {
		w := do(http.MethodPost, "/payment-bills/generate", `{`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
