package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finsight/finsight-service/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func authedHandler(t *testing.T, cfg *config.Config) (http.Handler, *string) {
	t.Helper()
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(string)
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(cfg)(next), &gotUserID
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	cases := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantUserID string
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer " + signToken(t, "test-secret", "user-1", time.Hour),
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
		{
			name:       "token via query parameter",
			query:      signToken(t, "test-secret", "user-2", time.Hour),
			wantStatus: http.StatusOK,
			wantUserID: "user-2",
		},
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, "other-secret", "user-3", time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer " + signToken(t, "test-secret", "user-4", -time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, gotUserID := authedHandler(t, cfg)

			url := "/transactions"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest("GET", url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK && *gotUserID != tc.wantUserID {
				t.Errorf("userID = %q, want %q", *gotUserID, tc.wantUserID)
			}
		})
	}
}
