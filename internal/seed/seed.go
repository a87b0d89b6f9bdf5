// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"log"
	"math/rand"
	"time"

	"glimpse/internal/models"

	"gorm.io/gorm"
)

// SeedOptions tunes seeding behavior.
type SeedOptions struct {
	// SkipBcrypt stores a plaintext password instead of hashing. Dev fast mode only.
	SkipBcrypt bool
	// DryRun logs what would be created without writing to the database.
	DryRun bool
	// MaxDays bounds how far in the past generated timestamps spread.
	MaxDays int
}

// Seeder populates the database with generated accounts and follow edges.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default options.
func NewSeeder(db *gorm.DB) *Seeder {
	return NewSeederWithOptions(db, SeedOptions{MaxDays: 90})
}

// NewSeederWithOptions creates a Seeder with explicit options.
func NewSeederWithOptions(db *gorm.DB, opts SeedOptions) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
	}
}

// ClearAll removes all seeded rows. Children go first so the restrict FKs
// on follow edges do not block account deletion.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, stmt := range []string{
		"DELETE FROM refresh_tokens",
		"DELETE FROM follow_edges",
		"DELETE FROM accounts",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAccounts creates n generated accounts. Roughly one in ten is created
// deactivated so graph queries have inactive rows to filter.
func (s *Seeder) SeedAccounts(n int) ([]*models.Account, error) {
	log.Printf("Creating %d accounts...", n)
	accounts := make([]*models.Account, 0, n)
	for i := 0; i < n; i++ {
		overrides := []func(*models.Account){}
		if i%10 == 9 {
			overrides = append(overrides, func(a *models.Account) { a.IsActive = false })
		}
		account, err := s.factory.CreateAccount(overrides...)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// SeedFollowMesh wires the given accounts into a follow graph. Each account
// follows a random subset of the others; a fraction of the edges are then
// unfollowed, and some of those refollowed, so the data carries full
// edge lifecycle history.
func (s *Seeder) SeedFollowMesh(accounts []*models.Account) (int, error) {
	if len(accounts) < 2 {
		return 0, nil
	}
	log.Printf("Building follow mesh for %d accounts...", len(accounts))

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0

	for _, follower := range accounts {
		// Between 1 and a third of the population, capped at 15.
		maxFollows := len(accounts) / 3
		if maxFollows > 15 {
			maxFollows = 15
		}
		if maxFollows < 1 {
			maxFollows = 1
		}
		numFollows := 1 + r.Intn(maxFollows)

		for _, idx := range r.Perm(len(accounts))[:numFollows] {
			followed := accounts[idx]
			if followed.ID == follower.ID {
				continue
			}

			edge := &models.FollowEdge{
				FollowerID:    follower.ID,
				FollowedID:    followed.ID,
				IsFollowing:   true,
				FollowingDate: s.factory.pastTimestamp(r),
			}

			// Roughly a quarter of edges have been unfollowed; half of
			// those were later refollowed. A refollow clears the unfollow
			// date and moves the following date forward, matching what
			// reactivation writes.
			switch r.Intn(8) {
			case 0:
				unfollowed := edge.FollowingDate.Add(time.Duration(1+r.Intn(72)) * time.Hour)
				edge.IsFollowing = false
				edge.UnfollowDate = &unfollowed
			case 1:
				edge.FollowingDate = edge.FollowingDate.Add(time.Duration(1+r.Intn(144)) * time.Hour)
			}

			if err := s.factory.CreateEdge(edge); err != nil {
				// Duplicate pair from a previous iteration. Skip it.
				continue
			}
			created++
		}
	}

	log.Printf("Created %d follow edges", created)
	return created, nil
}
