package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// checkOperatorKey compares key against its bcrypt hash.
func checkOperatorKey(hash, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}

// NewOperatorKeyHash bcrypt-hashes an operator key for storage in
// configuration.
func NewOperatorKeyHash(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing operator key: %w", err)
	}
	return string(hash), nil
}

// issueToken signs a short-lived HS512 JWT for the single "operator"
// subject.
func (s *Server) issueToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": "tfa-analysis",
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(s.jwtSecret)
}

// verifyToken validates a bearer token against the server's secret.
func (s *Server) verifyToken(tok string) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("tfa-analysis"), jwt.WithLeeway(time.Minute))
	return err
}

// getBearerToken extracts the token from an "Authorization: Bearer <tok>"
// header.
func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return strings.TrimSpace(parts[1]), nil
}

// requireAuth is chi middleware requiring a valid bearer token. There is
// no user database behind it: this service has exactly one credential,
// the operator key.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err != nil {
			time.Sleep(s.unauthDelay)
			writeError(w, http.StatusUnauthorized, "you are not authorized to do that")
			return
		}
		if err := s.verifyToken(tok); err != nil {
			time.Sleep(s.unauthDelay)
			writeError(w, http.StatusUnauthorized, "you are not authorized to do that")
			return
		}
		next.ServeHTTP(w, req)
	})
}
