package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/proactivefit/proactive-server/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seedUser(db, "admin@proactive.fitness", "ProActive Admin", "admin")
	instructor := seedUser(db, "coach@proactive.fitness", "Sam Rivera", "instructor")
	seedUser(db, "demo@proactive.fitness", "Demo Student", "student")

	classes := []struct {
		name  string
		price float64
		seats int
	}{
		{"Sunrise Yoga", 12.50, 20},
		{"HIIT Express", 15.00, 16},
		{"Strength Foundations", 19.99, 12},
	}
	for _, c := range classes {
		var id string
		err := db.QueryRow(`
			INSERT INTO classes (name, instructor_email, price, seats, status)
			VALUES ($1, $2, $3, $4, 'approved')
			ON CONFLICT (name, instructor_email) DO UPDATE SET price=EXCLUDED.price, seats=EXCLUDED.seats
			RETURNING id
		`, c.name, instructor, c.price, c.seats).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed class %q: %v", c.name, err)
		}
		fmt.Printf("seeded class: id=%s name=%s price=%.2f\n", id, c.name, c.price)
	}
}

func seedUser(db *sql.DB, email, name, role string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name, role=EXCLUDED.role
		RETURNING id
	`, email, name, role).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s role=%s\n", id, email, role)
	return email
}
