package entry_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/category"
	categoryPostgres "github.com/frahmantamala/interior-ledger/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/category"
	entryDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/entry"
	projectDatamodel "github.com/frahmantamala/interior-ledger/internal/core/datamodel/project"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	entryPostgres "github.com/frahmantamala/interior-ledger/internal/entry/postgres"
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

var _ = Describe("Entry Handler Integration", func() {
	var (
		db        *gorm.DB
		router    *chi.Mux
		projectID int64
	)

	const userID int64 = 1

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
		Expect(db.AutoMigrate(&projectDatamodel.Project{}, &entryDatamodel.Entry{}, &categoryDatamodel.Category{})).To(Succeed())

		projects := project.NewService(projectPostgres.NewProjectRepository(db), nil, slogger)
		categories := category.NewService(categoryPostgres.NewCategoryRepository(db), category.DefaultBuiltins, slogger)
		service := entry.NewService(entryPostgres.NewEntryRepository(db), projects, categories, nil, slogger)
		handler := entry.NewHandler(transport.NewBaseHandler(slogger), service)

		p := &projectDatamodel.Project{UserID: userID, Name: "Kitchen", Status: projectDatamodel.StatusInProgress}
		Expect(db.Create(p).Error).To(Succeed())
		projectID = p.ID

		router = chi.NewRouter()
		router.Get("/entries", handler.ListEntries)
		router.Post("/entries", handler.CreateEntry)
		router.Patch("/entries/{id}", handler.UpdateEntry)
		router.Delete("/entries/{id}", handler.DeleteEntry)
	})

	It("should create, list newest first, patch and delete entries", func() {
		w := do(http.MethodPost, "/entries", fmt.Sprintf(`{"project_id":%d,"type":"Expense","amount":100,"category":"Tiles","date":"2024-01-05T00:00:00Z"}`, projectID))
		Expect(w.Code).To(Equal(http.StatusCreated))
		var first entry.Entry
		Expect(json.NewDecoder(w.Body).Decode(&first)).To(Succeed())

		w = do(http.MethodPost, "/entries", fmt.Sprintf(`{"project_id":%d,"type":"Income","amount":900,"category":"Referral","date":"2024-02-05T00:00:00Z"}`, projectID))
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, fmt.Sprintf("/entries?project_id=%d", projectID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var listed []entry.Entry
		Expect(json.NewDecoder(w.Body).Decode(&listed)).To(Succeed())
		Expect(listed).To(HaveLen(2))
		Expect(listed[0].Category).To(Equal("Referral"))

		var custom int64
		Expect(db.Model(&categoryDatamodel.Category{}).Where("category = ?", "Referral").Count(&custom).Error).To(Succeed())
		Expect(custom).To(Equal(int64(1)))

		w = do(http.MethodPatch, fmt.Sprintf("/entries/%d", first.ID), `{"amount":150}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var stored entryDatamodel.Entry
		Expect(db.First(&stored, first.ID).Error).To(Succeed())
		Expect(stored.Amount).To(Equal(150.0))

		w = do(http.MethodDelete, fmt.Sprintf("/entries/%d", first.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		w = do(http.MethodDelete, fmt.Sprintf("/entries/%d", first.ID), "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should respond 400 when required fields are missing", func() {
		w := do(http.MethodPost, "/entries", fmt.Sprintf(`{"project_id":%d,"type":"Expense"}`, projectID))
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["type"]).To(Equal("VALIDATION_ERROR"))
	})

	It("should respond 404 for an unknown project", func() {
		w := do(http.MethodPost, "/entries", `{"project_id":999,"type":"Expense","amount":1,"category":"Tiles"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should respond 400 when the list is missing its project", func() {
		w := do(http.MethodGet, "/entries", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
