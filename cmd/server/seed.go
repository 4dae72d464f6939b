package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

type seedUser struct {
	email    string
	username string
	password string
	role     domain.Role
}

var seedUsers = []seedUser{
	{email: "owner1@example.com", username: "owner1", password: "Abc@123", role: domain.RoleOwner},
	{email: "guest1@example.com", username: "guest1", password: "Abc@1234", role: domain.RoleGuest},
}

type seedTodo struct {
	title       string
	description string
	category    string
	priority    domain.Priority
	dueIn       time.Duration
}

var seedTodos = []seedTodo{
	{
		title:       "Learn Go HTTP services",
		description: "Build the todo list API",
		category:    "A",
		priority:    domain.PriorityHigh,
		dueIn:       7 * 24 * time.Hour,
	},
	{
		title:       "Write unit tests",
		description: "Cover the authentication service",
		category:    "B",
		priority:    domain.PriorityLow,
		dueIn:       3 * 24 * time.Hour,
	},
}

// seedDatabase inserts sample users and todo items in a single transaction.
// Nothing is written when any user already exists.
func seedDatabase(ctx context.Context, db store.TxBeginner, hasher auth.PasswordHasher, log *slog.Logger) error {
	log = log.With(slog.String("component", "seed"))
	now := time.Now().UTC()

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		users := postgres.NewPostgresUserStore(tx, log)
		todos := postgres.NewPostgresTodoStore(tx, log)

		existing, err := users.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Info("database already has users, skipping seed", slog.Int("users", len(existing)))
			return nil
		}

		for _, su := range seedUsers {
			hash, err := hasher.Hash(su.password)
			if err != nil {
				return fmt.Errorf("failed to hash seed password: %w", err)
			}
			u, err := domain.NewUser(su.email, su.username, hash, su.role)
			if err != nil {
				return err
			}
			u.CreatedAt = now
			if err := users.Create(ctx, u); err != nil {
				return err
			}
		}

		for _, st := range seedTodos {
			due := now.Add(st.dueIn)
			item, err := domain.NewTodoItem(st.title, st.description, st.category, st.priority, &due)
			if err != nil {
				return err
			}
			item.CreatedAt = now
			if err := todos.Create(ctx, item); err != nil {
				return err
			}
		}

		log.Info("database seeded",
			slog.Int("users", len(seedUsers)),
			slog.Int("todo_items", len(seedTodos)))
		return nil
	})
}
