// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient aliases the firebase auth client so router deps can
// take *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// GuestCartHeader carries the guest cart id for unauthenticated sessions.
const GuestCartHeader = "X-Guest-Cart-Id"

// context keys use a private type instead of string (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeyUID      = ctxKey{name: "uid"}
	ctxKeyEmail    = ctxKey{name: "email"}
	ctxKeyFullName = ctxKey{name: "fullName"}
)

// OptionalAuth verifies Authorization: Bearer <ID_TOKEN> when present and
// injects uid/email/name into the request context. Requests without a token
// pass through untouched; guest sessions identify themselves with the
// X-Guest-Cart-Id header instead. A token that is present but invalid is
// rejected with 401.
type OptionalAuth struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *OptionalAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)

		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 && strings.TrimSpace(e) != "" {
				ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(e))
			}
		}
		if nameRaw, ok := token.Claims["name"]; ok {
			if n, ok2 := nameRaw.(string); ok2 && strings.TrimSpace(n) != "" {
				ctx = context.WithValue(ctx, ctxKeyFullName, strings.TrimSpace(n))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUID returns the verified Firebase UID, if any.
func CurrentUID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyUID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// CurrentUIDAndEmail returns the verified uid and (optional) email claim.
func CurrentUIDAndEmail(r *http.Request) (uid string, email string, ok bool) {
	uid, ok = CurrentUID(r)
	if !ok {
		return "", "", false
	}
	if v := r.Context().Value(ctxKeyEmail); v != nil {
		if e, okEmail := v.(string); okEmail {
			email = strings.TrimSpace(e)
		}
	}
	return uid, email, true
}

// CurrentFullName returns the display name claim injected by OptionalAuth.
func CurrentFullName(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyFullName)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// GuestCartID returns the guest cart id header, if any.
func GuestCartID(r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.Header.Get(GuestCartHeader))
	if v == "" {
		return "", false
	}
	return v, true
}
