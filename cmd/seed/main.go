package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4"
	"golang.org/x/crypto/bcrypt"

	"tender-analysis-service/internal/config"
	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
	pg "tender-analysis-service/internal/infra/db/postgres"
)

// Seeds the admin account and the two template checklists. Running it
// again is a no-op.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := pg.NewPostgresUserRepo(pool)
	checklists := pg.NewPostgresChecklistRepo(pool)
	tm := pg.NewTxManager(pool)

	admin, err := users.FindByEmail(ctx, repository.NoTX, "admin@email.com")
	switch {
	case err == nil:
		fmt.Printf("admin user already present (id=%d)\n", admin.ID)
	case errors.Is(err, domain.ErrNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		admin = &model.User{
			Email:          "admin@email.com",
			Username:       "admin",
			FullName:       "Admin Admin",
			HashedPassword: string(hash),
			IsActive:       true,
			IsAdmin:        true,
		}
		if err := users.Create(ctx, repository.NoTX, admin); err != nil {
			log.Fatalf("create admin: %v", err)
		}
		fmt.Printf("seeded admin user (id=%d)\n", admin.ID)
	default:
		log.Fatalf("find admin: %v", err)
	}

	templates, err := checklists.ListTemplates(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list templates: %v", err)
	}
	if len(templates) > 0 {
		fmt.Printf("%d template checklists already present, no changes\n", len(templates))
		return
	}

	for _, t := range templateChecklists() {
		t := t
		err := tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			cl := &model.Checklist{
				Name:             t.name,
				Description:      t.description,
				Language:         t.language,
				IsTemplate:       true,
				TemplateCategory: t.category,
				OwnerID:          admin.ID,
			}
			if err := checklists.Create(ctx, tx, cl); err != nil {
				return err
			}
			pos := 0
			for _, q := range t.questions {
				item := &model.ChecklistItem{
					ChecklistID: cl.ID,
					Kind:        model.ItemKindQuestion,
					Text:        q,
					Required:    true,
					Position:    pos,
				}
				if err := checklists.AddItem(ctx, tx, item); err != nil {
					return err
				}
				pos++
			}
			for _, c := range t.conditions {
				item := &model.ChecklistItem{
					ChecklistID: cl.ID,
					Kind:        model.ItemKindCondition,
					Text:        c,
					Required:    true,
					Position:    pos,
				}
				if err := checklists.AddItem(ctx, tx, item); err != nil {
					return err
				}
				pos++
			}
			fmt.Printf("seeded template %q (id=%d, items=%d)\n", cl.Name, cl.ID, pos)
			return nil
		})
		if err != nil {
			log.Fatalf("seed template %q: %v", t.name, err)
		}
	}

	fmt.Println("seeding complete")
}

type template struct {
	name        string
	description string
	language    string
	category    string
	questions   []string
	conditions  []string
}

func templateChecklists() []template {
	return []template{
		{
			name:        "Deutsche Ausschreibungs-Checkliste",
			description: "Template checklist for German tenders with questions and conditions",
			language:    "de",
			category:    "german_tender",
			questions: []string{
				"In welcher Form sind die Angebote/Teilnahmeanträge einzureichen?",
				"Wann ist die Frist für die Einreichung von Bieterfragen?",
				"Welche Unterlagen müssen mit dem Angebot eingereicht werden?",
				"Wie ist die Bewertung der Angebote strukturiert?",
				"Welche Nachweise sind für die Eignung erforderlich?",
				"Wie werden die Angebote versiegelt und übermittelt?",
				"Welche Kriterien werden für die Vergabe herangezogen?",
				"Wie ist der Zeitplan für das Vergabeverfahren?",
				"Welche Sicherheiten sind zu leisten?",
				"Wie erfolgt die Bekanntgabe der Ergebnisse?",
			},
			conditions: []string{
				"Ist die Abgabefrist vor dem 31.12.2025?",
				"Werden alle erforderlichen Nachweise vollständig eingereicht?",
				"Ist das Angebot fristgerecht eingegangen?",
				"Sind alle Pflichtangaben im Angebot enthalten?",
				"Erfüllt der Bieter die Mindestanforderungen?",
				"Ist das Angebot wirtschaftlich?",
				"Sind alle Sicherheiten ordnungsgemäß hinterlegt?",
				"Wurden alle Bewertungskriterien berücksichtigt?",
				"Ist das Angebot rechtlich zulässig?",
				"Sind alle Dokumente vollständig und lesbar?",
			},
		},
		{
			name:        "English Tender Checklist",
			description: "Template checklist for English tenders with questions and conditions",
			language:    "en",
			category:    "english_tender",
			questions: []string{
				"In what form should offers/applications be submitted?",
				"When is the deadline for submitting bidder questions?",
				"Which documents must be submitted with the offer?",
				"How is the evaluation of offers structured?",
				"What evidence is required for qualification?",
				"How are offers sealed and submitted?",
				"What criteria are used for awarding the contract?",
				"What is the timeline for the procurement procedure?",
				"What securities are to be provided?",
				"How are the results communicated?",
			},
			conditions: []string{
				"Is the submission deadline before 31.12.2025?",
				"Are all required documents submitted completely?",
				"Was the offer submitted on time?",
				"Are all mandatory information included in the offer?",
				"Does the bidder meet the minimum requirements?",
				"Is the offer economically viable?",
				"Are all securities properly deposited?",
				"Were all evaluation criteria considered?",
				"Is the offer legally permissible?",
				"Are all documents complete and readable?",
			},
		},
	}
}
