package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/totalrecall/catalog-backend/internal/config"
	"github.com/totalrecall/catalog-backend/internal/db"
	"github.com/totalrecall/catalog-backend/internal/model"
)

type seedUser struct {
	UID  string
	Name string
}

type seedCard struct {
	OwnerUID string
	Kind     string
	Title    string
	Category string
	Rating   int
	Notes    string
	Location string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.User{}, &model.Card{}, &model.Recommendation{}, &model.Notification{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	users := buildSeedUsers()
	cards := buildSeedCards()

	canSeed, err := shouldSeed(ctx, sqlDB)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("cards already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}

	for _, u := range users {
		if err = insertUser(ctx, tx, u); err != nil {
			return err
		}
	}
	for _, c := range cards {
		if err = insertCard(ctx, tx, c); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("seeded %d users and %d cards", len(users), len(cards))
	return nil
}

func buildSeedUsers() []seedUser {
	return []seedUser{
		{UID: "demo-ana", Name: "Ana"},
		{UID: "demo-bruno", Name: "Bruno"},
		{UID: "demo-carla", Name: "Carla"},
		{UID: "demo-diego", Name: "Diego"},
	}
}

func buildSeedCards() []seedCard {
	type shape struct {
		Kind     string
		Category string
		Titles   []string
	}
	shapes := []shape{
		{Kind: model.CardKindFood, Category: "italian", Titles: []string{"Trattoria da Marco", "Osteria del Ponte"}},
		{Kind: model.CardKindFood, Category: "ramen", Titles: []string{"Menya Kotaro", "Shoyu House"}},
		{Kind: model.CardKindFood, Category: "bakery", Titles: []string{"Corner Crust", "Flour & Stone"}},
		{Kind: model.CardKindEntertainment, Category: "sci-fi", Titles: []string{"Total Recall", "Blade Runner"}},
		{Kind: model.CardKindEntertainment, Category: "drama", Titles: []string{"The Remains of the Day", "Paterson"}},
	}
	owners := []string{"demo-ana", "demo-bruno", "demo-carla", "demo-diego"}

	var cards []seedCard
	i := 0
	for _, s := range shapes {
		for _, t := range s.Titles {
			cards = append(cards, seedCard{
				OwnerUID: owners[i%len(owners)],
				Kind:     s.Kind,
				Title:    t,
				Category: s.Category,
				Rating:   3 + i%3,
				Notes:    fmt.Sprintf("Seeded %s pick in %s.", s.Kind, s.Category),
				Location: "downtown",
			})
			i++
		}
	}
	return cards
}

func insertUser(ctx context.Context, tx *sql.Tx, u seedUser) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (uid, name) VALUES (?, ?) ON DUPLICATE KEY UPDATE name = VALUES(name)`,
		u.UID, u.Name,
	)
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.UID, err)
	}
	return nil
}

func insertCard(ctx context.Context, tx *sql.Tx, c seedCard) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO cards (owner_uid, kind, title, category, rating, notes, location) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.OwnerUID, c.Kind, strings.TrimSpace(c.Title), c.Category, c.Rating, c.Notes, c.Location,
	)
	if err != nil {
		return fmt.Errorf("insert card %q: %w", c.Title, err)
	}
	return nil
}

func shouldSeed(ctx context.Context, db *sql.DB) (bool, error) {
	var cnt int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&cnt); err != nil {
		return false, fmt.Errorf("count cards: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}
