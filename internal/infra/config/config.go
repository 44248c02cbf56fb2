// internal/infra/config/config.go
package config

import "os"

// Config holds every environment-derived setting the store binary needs.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	FirebaseProjectID string

	GCSBucket string

	// AllowedOrigin is the single CORS origin the API answers for.
	AllowedOrigin string

	// ORDERS_PG_DSN switches the order read model to PostgreSQL.
	// Empty keeps the Firestore default.
	OrdersPGDSN string

	// SendGridAPIKey wins over SendGridSecretName when both are set.
	// SendGridSecretName is a Secret Manager resource name
	// ("projects/<p>/secrets/<s>/versions/latest").
	SendGridAPIKey     string
	SendGridSecretName string
	MailFrom           string
}

// Load reads the environment and returns the resulting Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "tienda-dev")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "https://tienda-dev.web.app"),

		OrdersPGDSN: os.Getenv("ORDERS_PG_DSN"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		MailFrom:           os.Getenv("MAIL_FROM"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
