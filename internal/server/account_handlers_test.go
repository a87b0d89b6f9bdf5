package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"glimpse/internal/models"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

func TestGetAccountHandler(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := newTestServer(t, db)
	app := fiber.New()
	app.Get("/users/:id", s.GetAccount)
	app.Get("/users", s.GetAccounts)

	account := createAccount(t, db, "getme", true)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d", account.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		user := body["user"].(map[string]any)
		if user["username"] != "getme" {
			t.Errorf("unexpected username: %v", user["username"])
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/99999", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/zero", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("list caps the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users?limit=5000", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["limit"].(float64) != maxPaginationLimit {
			t.Errorf("expected limit %d, got %v", maxPaginationLimit, body["limit"])
		}
	})
}

func TestDisableAccountHandler(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := newTestServer(t, db)
	app := fiber.New()
	app.Put("/users/:id/disable", s.DisableAccount)

	account := createAccount(t, db, "disableme", true)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/users/%d/disable", account.ID), nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stored models.Account
	if err := db.First(&stored, account.ID).Error; err != nil {
		t.Fatalf("account vanished: %v", err)
	}
	if stored.IsActive {
		t.Error("account must be inactive after disable")
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := newTestServer(t, db)
	app := fiber.New()
	app.Delete("/users/:id", s.DeleteAccount)

	t.Run("deletes unreferenced account", func(t *testing.T) {
		account := createAccount(t, db, "deleteme", true)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/users/%d", account.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var count int64
		db.Model(&models.Account{}).Where("id = ?", account.ID).Count(&count)
		if count != 0 {
			t.Error("account row must be gone")
		}
	})

	t.Run("missing account", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/users/99999", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestAuthRequiredMiddleware(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := newTestServer(t, db)
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"account_id": c.Locals("accountID")})
	})

	account := createAccount(t, db, "authuser", true)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("valid token passes and binds the account", func(t *testing.T) {
		// Mint through the service so claims match what the middleware expects.
		token := issueTestToken(t, s, account)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["account_id"].(float64) != float64(account.ID) {
			t.Errorf("wrong account bound: %v", body["account_id"])
		}
	})
}

// issueTestToken logs the account in through the session service with a
// throwaway password and returns the minted access token.
func issueTestToken(t *testing.T, s *Server, account *models.Account) string {
	t.Helper()

	hashed, err := service.NewBcryptHasher().Hash("login-pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	account.Password = hashed
	if err := s.db.Save(account).Error; err != nil {
		t.Fatalf("save account: %v", err)
	}

	_, access, _, err := s.sessionService.Login(context.Background(), account.Email, "login-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return access
}
