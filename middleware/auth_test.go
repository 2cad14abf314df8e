package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func playerClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":   float64(42),
		"role":      "player",
		"player_id": float64(7),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	var gotUserID int
	var gotPlayerID int

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotUserID, err = GetUserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("GetUserIDFromContext: %v", err)
		}
		gotPlayerID, err = GetPlayerIDFromContext(r.Context())
		if err != nil {
			t.Errorf("GetPlayerIDFromContext: %v", err)
		}
	})

	handler := Authenticate(testSecret)(next)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, playerClaims(), testSecret))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 42 || gotPlayerID != 7 {
		t.Errorf("claims: user=%d player=%d, want 42/7", gotUserID, gotPlayerID)
	}
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, playerClaims(), "other-secret"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	claims := playerClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called")
	}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, claims, testSecret))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	protected := func() http.Handler {
		chain := Authenticate(testSecret)(
			RequireRole(models.RoleOrganizer)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})))
		return chain
	}()

	t.Run("player blocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tournament-instances", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, playerClaims(), testSecret))
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("organizer allowed", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id":      float64(10),
			"role":         "organizer",
			"organizer_id": float64(3),
			"exp":          time.Now().Add(time.Hour).Unix(),
		}
		req := httptest.NewRequest(http.MethodPost, "/tournament-instances", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, claims, testSecret))
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}
