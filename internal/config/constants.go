package config

const (
	// DefaultDatabasePath is the default path for the hadith database
	DefaultDatabasePath = "./hadith.db"

	// DefaultSearchLimit caps the number of search results
	DefaultSearchLimit = 100

	// DefaultCollection is listed when there is no search input
	DefaultCollection = "bukhari"
)
