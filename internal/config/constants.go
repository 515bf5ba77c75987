package config

const (
	// DefaultDatabaseURL is used when neither DB_URL nor DATABASE_PATH is set
	DefaultDatabaseURL = "sqlite://./books.db"
)
