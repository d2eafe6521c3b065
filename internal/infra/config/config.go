// internal/infra/config/config.go
package config

import "os"

// Config holds the environment configuration for the whole service.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string
	GCPCreds                 string

	// Receipt mail. When SendGridAPIKey is empty the DI layer tries Secret
	// Manager with SendGridSecretName before giving up.
	SendGridAPIKey     string
	SendGridSecretName string
	ReceiptFromAddress string

	// Daily sales report export.
	ReportBucket string

	// Optional Postgres reporting mirror; mirror is skipped when host is empty.
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string
}

// Load reads the environment and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "stoky-pos")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: getenvDefault("SENDGRID_SECRET_NAME", "stoky-sendgrid-api-key"),
		ReceiptFromAddress: getenvDefault("RECEIPT_FROM_ADDRESS", "ventas@stoky.app"),

		ReportBucket: os.Getenv("SALES_REPORT_BUCKET"),

		PGHost:     os.Getenv("PG_HOST"),
		PGPort:     getenvDefault("PG_PORT", "5432"),
		PGUser:     os.Getenv("PG_USER"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		PGDatabase: getenvDefault("PG_DATABASE", "stoky"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
