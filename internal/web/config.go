package web

import "time"

// Config holds HTTP surface settings.
type Config struct {
	// AdminToken guards /api/admin. Admin routes are not mounted when empty.
	AdminToken    string        `env:"ADMIN_TOKEN"`
	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT" envDefault:"3s"`
	// FilesDir serves locally stored code images under /files/ when set.
	FilesDir string `env:"FILES_DIR"`
}

// OwnerHeader identifies the account that owns saved codes and billing.
// Authentication happens upstream; the header is trusted as-is.
const OwnerHeader = "X-Owner-ID"
