package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"famledger/internal/config"
	"famledger/internal/models"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	if _, err := config.Load(); err != nil {
		t.Fatalf("config.Load: %v", err)
	}
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "email": c.GetString(EmailKey)})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	loadTestConfig(t)
	user := &models.User{Base: models.Base{ID: "0190a3f2-0000-7000-8000-000000000001"}, Email: "alice@example.com"}

	access, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	t.Run("valid_access_token", func(t *testing.T) {
		w := doAuthRequest(setupAuthRouter(), "Bearer "+access)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if body := w.Body.String(); body != `{"email":"alice@example.com","user_id":"`+user.ID+`"}` {
			t.Errorf("unexpected body %s", body)
		}
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing_header", ""},
		{"wrong_scheme", "Token " + access},
		{"garbage_token", "Bearer not-a-jwt"},
		{"refresh_token_rejected", "Bearer " + refresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(setupAuthRouter(), tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if code := errorCode(t, w); code != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED, got %s", code)
			}
		})
	}

	t.Run("expired_token", func(t *testing.T) {
		claims := &JWTClaims{
			UserID:    user.ID,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if w := doAuthRequest(setupAuthRouter(), "Bearer "+expired); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for expired token, got %d", w.Code)
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		claims := &JWTClaims{
			UserID:           user.ID,
			TokenType:        tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
		}
		forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		if w := doAuthRequest(setupAuthRouter(), "Bearer "+forged); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for forged token, got %d", w.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	loadTestConfig(t)
	user := &models.User{Base: models.Base{ID: "u-1"}, Email: "a@example.com"}

	refresh, _ := GenerateRefreshToken(user)
	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected refresh token to validate: %v", err)
	}
	if claims.UserID != "u-1" || claims.Subject != "u-1" {
		t.Errorf("unexpected claims %+v", claims)
	}

	access, _ := GenerateAccessToken(user)
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	if len(h) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h))
	}
	if h != HashToken("abc") || h == HashToken("abd") {
		t.Error("hash must be deterministic and input-sensitive")
	}
}
