package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trashcash_webapp/internal/db"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations (default: list them)")
	flag.Parse()

	if !*apply {
		all, err := migrations.All()
		if err != nil {
			logger.Fatal("read migrations", "error", err)
		}
		for _, m := range all {
			fmt.Println(m.Name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.MustConnect(dsn)
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		logger.Fatal("apply migrations", "error", err)
	}
	fmt.Println("migrations applied")
}
