package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"glimpse/internal/config"
	"glimpse/internal/models"
	"glimpse/internal/repository"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.FollowEdge{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server against an in-memory DB. The prometheus
// middleware stays nil so parallel tests do not fight over collector names.
func newTestServer(t *testing.T, db *gorm.DB) *Server {
	t.Helper()
	accountRepo := repository.NewAccountRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	hasher := service.NewBcryptHasher()

	cfg := &config.Config{
		JWTSecret:             "handler-test-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLHours:  168,
	}

	s := &Server{
		config:      cfg,
		db:          db,
		accountRepo: accountRepo,
		followRepo:  followRepo,
		tokenRepo:   tokenRepo,
	}
	s.accountService = service.NewAccountService(accountRepo, hasher)
	s.sessionService = service.NewSessionService(tokenRepo, accountRepo, hasher, cfg)
	s.followService = service.NewFollowService(followRepo, accountRepo)
	return s
}

func createAccount(t *testing.T, db *gorm.DB, username string, active bool) *models.Account {
	t.Helper()
	account := &models.Account{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		IsActive: active,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestFollowAccountHandler(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := newTestServer(t, db)
	app := fiber.New()

	alice := createAccount(t, db, "alice", true)
	bob := createAccount(t, db, "bob", true)

	app.Post("/users/:id/follow", func(c *fiber.Ctx) error {
		c.Locals("accountID", alice.ID)
		return s.FollowAccount(c)
	})
	app.Delete("/users/:id/follow", func(c *fiber.Ctx) error {
		c.Locals("accountID", alice.ID)
		return s.UnfollowAccount(c)
	})

	t.Run("first follow creates the edge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["status"] != "followed" {
			t.Errorf("expected status followed, got %v", body["status"])
		}
	})

	t.Run("second follow conflicts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected 409, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["code"] != models.CodeAlreadyFollowing {
			t.Errorf("expected code %s, got %v", models.CodeAlreadyFollowing, body["code"])
		}
	})

	t.Run("unfollow deactivates the edge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/users/%d/follow", bob.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var edge models.FollowEdge
		if err := db.Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).First(&edge).Error; err != nil {
			t.Fatalf("edge row must survive unfollow: %v", err)
		}
		if edge.IsFollowing {
			t.Error("edge must be inactive after unfollow")
		}
		if edge.UnfollowDate == nil {
			t.Error("unfollow date must be recorded")
		}
	})

	t.Run("unfollow without active edge fails", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/users/%d/follow", bob.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["code"] != models.CodeNotFollowing {
			t.Errorf("expected code %s, got %v", models.CodeNotFollowing, body["code"])
		}
	})

	t.Run("refollow reuses the edge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/follow", bob.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["status"] != "refollowed" {
			t.Errorf("expected status refollowed, got %v", body["status"])
		}

		var count int64
		db.Model(&models.FollowEdge{}).
			Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).
			Count(&count)
		if count != 1 {
			t.Errorf("expected a single edge row, got %d", count)
		}
	})

	t.Run("self follow rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/follow", alice.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["code"] != models.CodeSelfReference {
			t.Errorf("expected code %s, got %v", models.CodeSelfReference, body["code"])
		}
	})

	t.Run("follow missing account", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/99999/follow", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/abc/follow", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestFollowListsAndCounts(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := newTestServer(t, db)
	app := fiber.New()

	alice := createAccount(t, db, "lista", true)
	bob := createAccount(t, db, "listb", true)
	carol := createAccount(t, db, "listc", true)

	app.Post("/users/:id/follow", func(c *fiber.Ctx) error {
		c.Locals("accountID", alice.ID)
		return s.FollowAccount(c)
	})
	app.Get("/users/:id/following", s.GetFollowing)
	app.Get("/users/:id/followers", s.GetFollowers)
	app.Get("/users/:id/following/count", s.CountFollowing)
	app.Get("/users/:id/followers/count", s.CountFollowers)
	app.Get("/users/suggestions", func(c *fiber.Ctx) error {
		c.Locals("accountID", alice.ID)
		return s.GetSuggestions(c)
	})

	for _, target := range []*models.Account{bob, carol} {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/follow", target.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("setup follow failed with %d", resp.StatusCode)
		}
	}

	t.Run("following list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/following", alice.ID), nil)
		resp, _ := app.Test(req)
		body := decodeBody(t, resp)
		following, _ := body["following"].([]any)
		if len(following) != 2 {
			t.Fatalf("expected 2 following, got %d", len(following))
		}
	})

	t.Run("followers list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/followers", bob.ID), nil)
		resp, _ := app.Test(req)
		body := decodeBody(t, resp)
		followers, _ := body["followers"].([]any)
		if len(followers) != 1 {
			t.Fatalf("expected 1 follower, got %d", len(followers))
		}
	})

	t.Run("counts agree with lists", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/following/count", alice.ID), nil)
		resp, _ := app.Test(req)
		if body := decodeBody(t, resp); body["count"].(float64) != 2 {
			t.Errorf("expected following count 2, got %v", body["count"])
		}

		req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/followers/count", bob.ID), nil)
		resp, _ = app.Test(req)
		if body := decodeBody(t, resp); body["count"].(float64) != 1 {
			t.Errorf("expected followers count 1, got %v", body["count"])
		}
	})

	t.Run("suggestions exclude followed accounts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/suggestions", nil)
		resp, _ := app.Test(req)
		body := decodeBody(t, resp)
		suggestions, _ := body["suggestions"].([]any)
		if len(suggestions) != 0 {
			t.Errorf("alice already follows everyone; expected 0 suggestions, got %d", len(suggestions))
		}
	})

	t.Run("inactive subject rejected", func(t *testing.T) {
		ghost := createAccount(t, db, "listghost", false)
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/followers", ghost.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})
}
