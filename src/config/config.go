package config

import "os"

const (
	TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
	DATE_FORMAT       = "2006-01-02"

	// Firestore caps a WriteBatch at 500 operations.
	MAX_BATCH_WRITES = 500
)

func ApiEnv() string {
	return os.Getenv("API_ENV")
}

func AppHost() string {
	return os.Getenv("APP_HOST")
}

func JWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func AmadeusBaseURL() string {
	base := os.Getenv("AMADEUS_BASE_URL")
	if base == "" {
		base = "https://test.api.amadeus.com"
	}
	return base
}

func AmadeusClientID() string {
	return os.Getenv("AMADEUS_CLIENT_ID")
}

func AmadeusClientSecret() string {
	return os.Getenv("AMADEUS_CLIENT_SECRET")
}

// MockAmadeusBooking selects between the live supplier API and locally
// fabricated booking responses for environments without credentials.
func MockAmadeusBooking() bool {
	return os.Getenv("MOCK_AMADEUS_BOOKING") == "true"
}

func GCloudProjectID() string {
	return os.Getenv("GCLOUD_PROJECT_ID")
}
