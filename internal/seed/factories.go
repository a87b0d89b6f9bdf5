package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"glimpse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the Seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateAccount constructs and persists a sample account.
// Optional override functions may modify the generated account before saving.
func (f *Factory) CreateAccount(overrides ...func(*models.Account)) (*models.Account, error) {
	account := &models.Account{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		IsActive:    true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		account.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		account.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(account)
	}

	if f.opts.DryRun {
		f.nextID++
		account.ID = f.nextID
		log.Printf("[dry-run] CreateAccount: %s <%s>", account.Username, account.Email)
		return account, nil
	}

	if err := f.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// CreateEdge persists a follow edge.
func (f *Factory) CreateEdge(edge *models.FollowEdge) error {
	if f.opts.DryRun {
		f.nextID++
		edge.ID = f.nextID
		log.Printf("[dry-run] CreateEdge: %d -> %d (following=%v)", edge.FollowerID, edge.FollowedID, edge.IsFollowing)
		return nil
	}
	return f.db.Create(edge).Error
}

// pastTimestamp returns a timestamp spread over the configured window.
func (f *Factory) pastTimestamp(r *rand.Rand) time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
