// cmd/seeder/main.go
package main

import (
    "fmt"
    "log"
    "os"

    "github.com/joho/godotenv"
    _ "github.com/lib/pq"

    "github.com/postpilot/postpilot-backend/internal/config"
    "github.com/postpilot/postpilot-backend/internal/db"
)

func main() {
    _ = godotenv.Load()

    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatal(err)
    }

    if err := db.Init(cfg.DatabaseURL()); err != nil {
        log.Fatal(err)
    }
    if err := db.Migrate(); err != nil {
        log.Fatal(err)
    }

    seedFiles := []string{
        "seed/accounts.sql",
        "seed/campaigns.sql",
    }

    for _, file := range seedFiles {
        content, err := os.ReadFile(file)
        if err != nil {
            log.Fatalf("failed to read %s: %v", file, err)
        }

        if _, err := db.DB.Exec(string(content)); err != nil {
            log.Fatalf("failed to execute %s: %v", file, err)
        }
        fmt.Printf("Seeded: %s\n", file)
    }

    fmt.Println("Database seeding completed successfully!")
}
