package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./pet-adoption.db"

	// DefaultImagesDir is where imported pet images are stored
	DefaultImagesDir = "./images"
)

// Credentials of the administrator created on first run.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminEmail    = "admin@petadoption.com"
)
