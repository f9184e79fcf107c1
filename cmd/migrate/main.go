package main

import (
	"os"

	"github.com/shabelski89/pushups/internal/db"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Applies the Postgres schema. SQLite databases are initialized by db.Open
// and don't need this.
func main() {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	sqlBytes, err := os.ReadFile("migrations/001_init.sql")
	if err != nil {
		logrus.Fatal(err)
	}

	d, err := db.Open(url)
	if err != nil {
		logrus.Fatal(err)
	}

	if _, err = d.Exec(string(sqlBytes)); err != nil {
		logrus.Fatal(err)
	}

	logrus.Println("Migration OK")
}
