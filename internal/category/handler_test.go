package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/category"
	categoryPostgres "github.com/frahmantamala/interior-ledger/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/category"
	"github.com/frahmantamala/interior-ledger/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *category.Handler
		slogger *slog.Logger
	)

	withUser := func(req *http.Request, userID int64) *http.Request {
		return req.WithContext(internal.ContextWithUserID(req.Context(), userID))
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&categoryDatamodel.Category{})).To(Succeed())

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, category.DefaultBuiltins, slogger)
		handler = category.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	It("should create and then list a custom category", func() {
		req := withUser(httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"type":"Expense","category":"Glass"}`)), 7)
		w := httptest.NewRecorder()
		handler.CreateCategory(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		req = withUser(httptest.NewRequest(http.MethodGet, "/categories", nil), 7)
		w = httptest.NewRecorder()
		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Expense).To(Equal([]string{"Glass"}))
		Expect(response.Income).To(BeEmpty())
	})

	It("should respond 409 on a duplicate registration", func() {
		for _, expected := range []int{http.StatusCreated, http.StatusConflict} {
			req := withUser(httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"type":"Income","category":"Referral"}`)), 7)
			w := httptest.NewRecorder()
			handler.CreateCategory(w, req)
			Expect(w.Code).To(Equal(expected))
		}
	})

	It("should respond 400 on a malformed body", func() {
		req := withUser(httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{`)), 7)
		w := httptest.NewRecorder()
		handler.CreateCategory(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should include built-ins when all=true", func() {
		req := withUser(httptest.NewRequest(http.MethodGet, "/categories?all=true", nil), 7)
		w := httptest.NewRecorder()
		handler.GetCategories(w, req)

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Expense).To(ContainElement("Materials"))
		Expect(response.Income).To(ContainElement("Design Fee"))
	})
})
