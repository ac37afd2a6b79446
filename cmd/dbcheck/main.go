package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"trainbooking/internal/config"
	"trainbooking/internal/infrastructure/postgres"
)

func main() {
	fix := flag.Bool("fix", false, "reset processing outbox events to new")
	limit := flag.Int("n", 5, "rows to show per table")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewClient(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	outboxRepo := postgres.NewOutboxRepository(pool)

	if *fix {
		n, err := outboxRepo.ResetStuck(ctx)
		if err != nil {
			fmt.Printf("Fix failed: %v\n", err)
		} else {
			fmt.Printf("Fixed %d messages\n", n)
		}
	}

	fmt.Println("--- Tickets ---")
	rows, err := pool.Query(ctx, `
		SELECT t.id, COALESCE(u.name, ''), COALESCE(tr.name, ''), t.booking_date, t.final_price
		FROM tickets t
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN trains tr ON tr.id = t.train_id
		ORDER BY t.id DESC
		LIMIT $1`, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query tickets failed: %v\n", err)
		os.Exit(1)
	}
	for rows.Next() {
		var id int64
		var userName, trainName string
		var bookingDate interface{}
		var price float64
		if err := rows.Scan(&id, &userName, &trainName, &bookingDate, &price); err != nil {
			fmt.Fprintf(os.Stderr, "Scan ticket failed: %v\n", err)
			break
		}
		fmt.Printf("ID: %d | User: %s | Train: %s | Booked: %v | Price: %.2f\n", id, userName, trainName, bookingDate, price)
	}
	rows.Close()

	fmt.Println("\n--- Outbox ---")
	events, err := outboxRepo.ListRecent(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query outbox failed: %v\n", err)
		os.Exit(1)
	}
	for _, e := range events {
		fmt.Printf("ID: %s | Status: %s | Type: %s | Ticket: %s\n", e.ID, e.Status, e.EventType, e.CorrelationID)
	}
}
