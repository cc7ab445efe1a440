package rest

import (
	"net/http"

	"github.com/frahmantamala/interior-ledger/internal/auth"
	"github.com/frahmantamala/interior-ledger/internal/category"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	"github.com/frahmantamala/interior-ledger/internal/estimate"
	"github.com/frahmantamala/interior-ledger/internal/export"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	"github.com/frahmantamala/interior-ledger/internal/payment"
	"github.com/frahmantamala/interior-ledger/internal/project"
	"github.com/frahmantamala/interior-ledger/internal/transport"
	"github.com/frahmantamala/interior-ledger/internal/transport/middleware"
	"github.com/frahmantamala/interior-ledger/internal/transport/swagger"
	"github.com/frahmantamala/interior-ledger/internal/user"
	"github.com/go-chi/chi"
)

const APIPrefix = "/api/v1"

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Base     *transport.BaseHandler
	Health   *HealthHandler
	Auth     *auth.Handler
	Tokens   middleware.TokenValidator
	User     *user.Handler
	Category *category.Handler
	Project  *project.Handler
	Entry    *entry.Handler
	Ledger   *ledger.Handler
	Payment  *payment.Handler
	Estimate *estimate.Handler
	Export   *export.Handler

	// OpenAPISpecPath is served at /openapi.yml for the swagger UI.
	OpenAPISpecPath string
	AllowedOrigins  []string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers) {
	router.Use(middleware.CORS(h.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(h.Base))
	router.Use(middleware.Logging)

	if h.OpenAPISpecPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, h.OpenAPISpecPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route(APIPrefix, func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		r.Route("/auth", func(ar chi.Router) {
			if h.User != nil {
				ar.Post("/register", h.User.Register)
			}
			if h.Auth != nil {
				ar.Post("/login", h.Auth.Login)
				ar.Post("/refresh", h.Auth.RefreshToken)
			}
		})

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(h.Tokens, h.Base))

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Category != nil {
				pr.Get("/categories", h.Category.GetCategories)
				pr.Post("/categories", h.Category.CreateCategory)
			}

			if h.Entry != nil {
				pr.Route("/entries", func(er chi.Router) {
					er.Get("/", h.Entry.ListEntries)
					er.Post("/", h.Entry.CreateEntry)
					er.Patch("/{id}", h.Entry.UpdateEntry)
					er.Delete("/{id}", h.Entry.DeleteEntry)
				})
			}

			if h.Ledger != nil {
				pr.Route("/ledger", func(lr chi.Router) {
					lr.Post("/transfers", h.Ledger.TransferIncome)
					lr.Get("/transfers/unpaired", h.Ledger.UnpairedTransfers)
					lr.Post("/shared-expenses", h.Ledger.DistributeSharedExpense)
					lr.Get("/shared-expenses", h.Ledger.SharedExpenses)
					lr.Get("/yearly", h.Ledger.YearlyBreakdown)
					lr.Get("/totals", h.Ledger.UserTotals)
				})
			}

			if h.Payment != nil {
				pr.Post("/payment-bills/generate", h.Payment.GenerateBill)
				pr.Get("/payment-bills/{id}", h.Payment.GetBill)
			}

			if h.Estimate != nil {
				pr.Route("/estimates", func(esr chi.Router) {
					esr.Post("/", h.Estimate.CreateEstimate)
					esr.Get("/", h.Estimate.ListEstimates)
					esr.Get("/{id}", h.Estimate.GetEstimate)
				})
			}

			pr.Route("/projects", func(pjr chi.Router) {
				if h.Project != nil {
					pjr.Post("/", h.Project.CreateProject)
					pjr.Get("/", h.Project.ListProjects)
					pjr.Get("/{id}", h.Project.GetProject)
					pjr.Patch("/{id}/budget", h.Project.UpdateBudget)
					pjr.Patch("/{id}/status", h.Project.UpdateStatus)
					pjr.Patch("/{id}/estimate", h.Project.ConnectEstimate)
					pjr.Delete("/{id}", h.Project.DeleteProject)
				}
				if h.Ledger != nil {
					pjr.Get("/{id}/summary", h.Ledger.ProjectSummary)
					pjr.Get("/{id}/remaining-budget", h.Ledger.RemainingBudget)
					pjr.Get("/{id}/monthly", h.Ledger.MonthlyBreakdown)
					pjr.Get("/{id}/categories", h.Ledger.CategoryBreakdown)
					pjr.Get("/{id}/balance-sheet", h.Ledger.BalanceSheet)
				}
				if h.Export != nil {
					pjr.Get("/{id}/export", h.Export.ExportBalanceSheet)
				}
				if h.Payment != nil {
					pjr.Get("/{id}/payment-bills", h.Payment.ListProjectBills)
				}
			})
		})
	})
}
