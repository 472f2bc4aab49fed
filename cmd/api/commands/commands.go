package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/railis/core/internal/adapters/repository"
	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/config"
	"github.com/railis/core/internal/infrastructure/database"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Railis API server",
		Long:  "Start the Railis API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and manage users in the system",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Run: func(cmd *cobra.Command, args []string) {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")

			if name == "" || email == "" || password == "" {
				log.Fatal("Name, email and password are required")
			}
			if !entities.UserRole(role).IsValid() {
				log.Fatalf("Invalid role %q (must be leader or worker)", role)
			}

			createUser(name, email, password, entities.UserRole(role))
		},
	}

	createUserCmd.Flags().String("name", "", "Display name (required)")
	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")
	createUserCmd.Flags().String("role", "worker", "User role (leader, worker)")

	listUsersCmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Run: func(cmd *cobra.Command, args []string) {
			listUsers()
		},
	}

	userCmd.AddCommand(createUserCmd)
	userCmd.AddCommand(listUsersCmd)
	return userCmd
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo data",
		Long:  "Insert a demo leader, demo workers and a handful of tasks for local development",
		Run: func(cmd *cobra.Command, args []string) {
			seed()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Railis version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Railis Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	srv, err := server.New(cfg, db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting Railis API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)); err != nil {
			appLogger.Info("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func newMigrator() (*migrate.Migrate, *database.DB) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	return m, db
}

func runMigration(direction string) {
	m, db := newMigrator()
	defer db.Close()

	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	m, db := newMigrator()
	defer db.Close()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func createUser(name, email, password string, role entities.UserRole) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`

	id := uuid.New()
	if _, err := db.DB.Exec(query, id, name, email, string(hashedPassword), role); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %s\n", id)
	fmt.Printf("  Name: %s\n", name)
	fmt.Printf("  Email: %s\n", email)
	fmt.Printf("  Role: %s\n", role)
}

func listUsers() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users, err := repository.NewUserRepository(db.DB).List(context.Background())
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	for _, u := range users {
		fmt.Printf("%s  %-20s %-30s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
}

func seed() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userQuery := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`

	workers := []struct {
		Name  string
		Email string
	}{
		{"Sara Ahmadi", "sara@railis.dev"},
		{"Omid Karimi", "omid@railis.dev"},
		{"Neda Rahimi", "neda@railis.dev"},
	}

	if _, err := db.DB.Exec(userQuery, uuid.New(), "Demo Leader", "leader@railis.dev", string(password), entities.UserRoleLeader); err != nil {
		log.Fatalf("Failed to seed leader: %v", err)
	}
	for _, w := range workers {
		if _, err := db.DB.Exec(userQuery, uuid.New(), w.Name, w.Email, string(password), entities.UserRoleWorker); err != nil {
			log.Fatalf("Failed to seed worker: %v", err)
		}
	}

	// A rerun hits the email conflict above, so resolve the IDs that are
	// actually in the database rather than trusting the generated ones.
	seededID := func(email string) uuid.UUID {
		var id uuid.UUID
		if err := db.DB.Get(&id, `SELECT id FROM users WHERE email = $1`, email); err != nil {
			log.Fatalf("Failed to look up seeded user %s: %v", email, err)
		}
		return id
	}

	leaderID := seededID("leader@railis.dev")
	workerIDs := make([]uuid.UUID, len(workers))
	for i, w := range workers {
		workerIDs[i] = seededID(w.Email)
	}

	var existing int
	if err := db.DB.Get(&existing, `SELECT COUNT(*) FROM tasks WHERE leader_id = $1`, leaderID); err != nil {
		log.Fatalf("Failed to check for seeded tasks: %v", err)
	}

	if existing == 0 {
		taskQuery := `
			INSERT INTO tasks (id, title, description, deadline, status, leader_id, worker_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`

		now := time.Now()
		tasks := []struct {
			Title    string
			Desc     string
			Deadline time.Time
			Status   entities.TaskStatus
			WorkerID uuid.UUID
		}{
			{"Prepare quarterly report", "Collect the numbers and draft the report", now.AddDate(0, 0, 7), entities.TaskStatusPending, workerIDs[0]},
			{"Update onboarding docs", "Refresh the screenshots and steps", now.AddDate(0, 0, 3), entities.TaskStatusInProgress, workerIDs[1]},
			{"Inventory audit", "Count and reconcile warehouse stock", now.AddDate(0, 0, 14), entities.TaskStatusPending, workerIDs[2]},
		}

		for _, t := range tasks {
			if _, err := db.DB.Exec(taskQuery, uuid.New(), t.Title, t.Desc, t.Deadline, t.Status, leaderID, t.WorkerID); err != nil {
				log.Fatalf("Failed to seed task: %v", err)
			}
		}
	} else {
		fmt.Println("Demo tasks already present, skipping task seed")
	}

	fmt.Println("Seed data inserted:")
	fmt.Println("  leader@railis.dev / password123 (leader)")
	for _, w := range workers {
		fmt.Printf("  %s / password123 (worker)\n", w.Email)
	}
}
