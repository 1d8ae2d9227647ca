package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "timetable"
	DefaultConfigDir  = "~/.config/timetable"
	DefaultConfigFile = "~/.config/timetable/config.json"
	Version           = "v0.1.0"

	// Keyring keys. The token key mirrors the name the web client used for its local cache.
	KeyringTokenUser   = "authToken"
	KeyringSessionUser = "sessionUser"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// API constants
	DefaultAPIURL  = "http://localhost:5000/api"
	RequestTimeout = 10 * time.Second

	// LocalIDPrefix marks entries that only exist in memory. Server ids never carry it.
	LocalIDPrefix = "local_"

	// DefaultAvatarURL is prefixed to the escaped email when a user has no photo.
	DefaultAvatarURL = "https://ui-avatars.com/api/?name="

	// Server constants
	DefaultListenAddr   = ":5000"
	DefaultServerDSN    = "~/.config/timetable/server.db"
	DefaultTokenTTL     = 24 * time.Hour
	DefaultJWTIssuer    = "timetable"
	MinPasswordLength   = 6
	ServerShutdownGrace = 5 * time.Second
)

// Session States
const (
	StateTimetable SessionState = iota
	StateProfile
	StateAddAction
	StateConfirmDelete
)
