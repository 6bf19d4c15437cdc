// Package seeder fills a CineLog server with fake accounts and activity.
package seeder

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cinelog/cinelog-server/internal/cli/client"
	"github.com/cinelog/cinelog-server/internal/models"
)

// Config controls how much activity the seeder generates.
type Config struct {
	ServerURL string
	Accounts  int
	Reviews   int
	ListItems int
	Password  string
}

// Runner handles the seeding execution.
type Runner struct {
	Config Config
	Client *client.Client
}

// NewRunner creates a new seeder runner.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		Config: cfg,
		Client: client.New(cfg.ServerURL),
	}
}

var listKinds = []string{"watchlist", "favorites", "history"}

// Run registers accounts, then posts reviews and list items as each one.
func (r *Runner) Run() error {
	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting seeder:")
	log.Printf("  Server URL: %s", r.Config.ServerURL)
	log.Printf("  Accounts: %d", r.Config.Accounts)
	log.Printf("  Reviews per account: %d", r.Config.Reviews)
	log.Printf("  List items per account: %d", r.Config.ListItems)

	accountCount := 0
	reviewCount := 0
	itemCount := 0
	failCount := 0

	for i := 0; i < r.Config.Accounts; i++ {
		username := gofakeit.Username()
		resp, err := r.Client.Register(username, gofakeit.Email(), r.Config.Password)
		if err != nil {
			log.Printf("Failed to register %s: %v", username, err)
			failCount++
			continue
		}
		accountCount++
		token := resp.AccessToken

		for j := 0; j < r.Config.Reviews; j++ {
			movie := gofakeit.Movie()
			_, err := r.Client.CreateReview(token, &models.CreateReviewRequest{
				TitleID:   strconv.Itoa(gofakeit.Number(1, 900000)),
				TitleName: movie.Name,
				Rating:    gofakeit.Number(1, 10),
				Content:   gofakeit.Sentence(rand.Intn(20) + 5),
			})
			if err != nil {
				log.Printf("Failed to post review as %s: %v", username, err)
				failCount++
				continue
			}
			reviewCount++
		}

		for j := 0; j < r.Config.ListItems; j++ {
			kind := listKinds[rand.Intn(len(listKinds))]
			movie := gofakeit.Movie()
			_, err := r.Client.AddListItem(token, kind, &models.AddListItemRequest{
				TitleID:   strconv.Itoa(gofakeit.Number(1, 900000)),
				TitleName: movie.Name,
			})
			if err != nil {
				log.Printf("Failed to add %s item as %s: %v", kind, username, err)
				failCount++
				continue
			}
			itemCount++
		}

		log.Printf("Progress: %d/%d accounts seeded", i+1, r.Config.Accounts)
	}

	log.Printf("\nSeeding complete:")
	log.Printf("  Accounts: %d", accountCount)
	log.Printf("  Reviews: %d", reviewCount)
	log.Printf("  List items: %d", itemCount)
	if failCount > 0 {
		log.Printf("  Failed requests: %d", failCount)
	}

	if accountCount == 0 && r.Config.Accounts > 0 {
		return fmt.Errorf("no accounts could be created")
	}
	return nil
}
