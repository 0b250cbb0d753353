package utils

import (
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"time"

	"travexe/src/config"
	"travexe/src/types"

	"github.com/golang-jwt/jwt/v4"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func GenerateJWT(uid, email string) (string, error) {
	claims := types.Claims{}
	claims.UID = uid
	claims.Email = email
	claims.Subject = uid
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(24 * time.Hour))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte(config.JWTSecret()))
	if err != nil {
		log.Printf("Error signing token: %s\n", err.Error())
		return "", err
	}
	return signed, nil
}

// ParseDate accepts either a bare date or a full timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(config.DATE_FORMAT, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(config.TIME_PARSE_FORMAT, value)
}

// Midnight truncates a timestamp to 00:00:00 in UTC. Date comparisons for
// reminders are done on whole days, never on clock time.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const confirmationChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func RandomUpperString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = confirmationChars[rand.Intn(len(confirmationChars))]
	}
	return string(b)
}

// MockConfirmationNumber fabricates a confirmation reference for bookings
// created without a live supplier call.
func MockConfirmationNumber(prefix string) string {
	if prefix == "" {
		prefix = "MOCK"
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), RandomUpperString(6))
}
