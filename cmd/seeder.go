package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	"github.com/frahmantamala/interior-ledger/internal/project"
	"github.com/frahmantamala/interior-ledger/internal/user"
	"github.com/spf13/cobra"
)

var (
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample data",
		Long:  `Seed the database with a demo user, two running projects and a few ledger entries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runSeed(ctx)
		},
	}
	clearData bool
	seedEmail string
)

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "delete the demo user's projects before seeding")
	seedCmd.Flags().StringVar(&seedEmail, "email", "demo@interior.local", "email of the demo user")
}

type seedProject struct {
	name   string
	budget float64
}

type seedEntry struct {
	project  string
	kind     string
	amount   float64
	category string
	desc     string
}

func runSeed(ctx context.Context) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	u, err := app.Users.Register(ctx, user.RegisterDTO{
		Username: "demo",
		Email:    seedEmail,
		Password: "password",
	})
	if errors.Is(err, internal.ErrDuplicateUser) {
		u, err = app.Users.GetByEmail(ctx, seedEmail)
		fmt.Println("demo user already exists:", seedEmail)
	} else if err == nil {
		fmt.Println("Seeded demo user:", seedEmail)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve demo user: %w", err)
	}

	if clearData {
		existing, err := app.Projects.List(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, p := range existing {
			deleted, err := app.Projects.Delete(ctx, u.ID, p.ID)
			if err != nil {
				return fmt.Errorf("failed to clear project %s: %w", p.Name, err)
			}
			fmt.Printf("Cleared project %s (%d entries)\n", p.Name, deleted)
		}
	}

	projects := map[string]int64{}
	for _, sp := range []seedProject{
		{name: "Kitchen Remodel", budget: 45000},
		{name: "Lobby", budget: 120000},
	} {
		p, err := app.Projects.FindByName(ctx, u.ID, sp.name)
		if errors.Is(err, internal.ErrProjectNotFound) {
			budget := sp.budget
			p, err = app.Projects.Create(ctx, u.ID, project.CreateProjectDTO{
				Name:   sp.name,
				Budget: &budget,
				Status: project.StatusInProgress,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to seed project %s: %w", sp.name, err)
		}
		projects[sp.name] = p.ID
	}
	fmt.Println("Seeded projects:", len(projects))

	for _, se := range []seedEntry{
		{"Kitchen Remodel", entry.TypeIncome, 20000, "Advance", "first installment"},
		{"Kitchen Remodel", entry.TypeExpense, 3200, "Tiles", "porcelain floor tiles"},
		{"Kitchen Remodel", entry.TypeExpense, 850, "Paint", "primer and finish"},
		{"Lobby", entry.TypeIncome, 60000, "Advance", "mobilisation advance"},
		{"Lobby", entry.TypeExpense, 14000, "Furniture", "reception desk"},
	} {
		if _, err := app.Entries.AddEntry(ctx, u.ID, entry.AddEntryDTO{
			ProjectID:   projects[se.project],
			Type:        se.kind,
			Amount:      se.amount,
			Category:    se.category,
			Description: se.desc,
		}); err != nil {
			return fmt.Errorf("failed to seed entry %s/%s: %w", se.project, se.category, err)
		}
	}

	if _, err := app.Ledger.TransferIncome(ctx, u.ID, ledger.TransferDTO{
		CurrentProjectID:  projects["Kitchen Remodel"],
		SourceProjectName: "Lobby",
		Amount:            5000,
		Description:       "bridge funding",
	}); err != nil {
		return fmt.Errorf("failed to seed transfer: %w", err)
	}

	res, err := app.Ledger.DistributeSharedExpense(ctx, u.ID, ledger.SharedExpenseDTO{
		Amount:      1200,
		Category:    "Site Office",
		Description: "shared site office rent",
	})
	if err != nil {
		return fmt.Errorf("failed to seed shared expense: %w", err)
	}
	fmt.Printf("Distributed shared expense across %d projects (batch %s)\n", res.ProjectCount, res.BatchID)

	return nil
}
