// Package database owns the connection to the embedded hadith store.
//
// # Architecture
//
// The database layer is organized into a connection manager and
// domain-specific sub-packages:
//
//	database/
//	├── database.go      # Lazy connection, Execute/Query, transactions
//	├── errors.go        # Error, the only error kind callers see
//	├── migrations.go    # Versioned, idempotent schema migrations
//	├── collections/     # Collections and the user's selected filter
//	├── hadith/          # Record lookup, listing and substring search
//	└── meta/            # Process-wide flags such as "seeded"
//
// # Using Sub-packages
//
//	db := database.NewDatabase("./hadith.db")
//	defer db.Close()
//
//	if err := db.RunMigrations(); err != nil {
//		// fatal to startup, offer a retry
//	}
//
//	hadithRepo := hadith.NewRepository(db)
//	results, err := hadithRepo.SearchByText("بسم")
//
// Repositories accept an Executor, so the same repository type works on a
// *Database or on the *Tx passed to Database.Transaction.
//
// # Errors
//
// Every failure from opening, executing, committing or rolling back is an
// *Error carrying the failing statement and its parameters. Use AsError to
// reach it from a wrapped chain.
package database
