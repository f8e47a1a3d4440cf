package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/homeskillhub/core/internal/adapters/repository"
	"github.com/homeskillhub/core/internal/adapters/storage/boltdb"
	"github.com/homeskillhub/core/internal/adapters/storage/jsonfile"
	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/blob"
	"github.com/homeskillhub/core/internal/infrastructure/config"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/infrastructure/server"
	"github.com/homeskillhub/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HomeSkill-Hub API server",
		Long:  "Start the HomeSkill-Hub API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewDBCommand creates the db maintenance command with subcommands
func NewDBCommand() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Document store maintenance commands",
		Long:  "Inspect and repair the persisted document (collections and counters)",
	}

	dbCmd.AddCommand(&cobra.Command{
		Use:   "inspect",
		Short: "Print collection sizes and counters",
		Run: func(cmd *cobra.Command, args []string) {
			inspectStore()
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Repair ID counters and rewrite the document",
		Run: func(cmd *cobra.Command, args []string) {
			reconcileStore()
		},
	})

	return dbCmd
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

			createUser(name, email, password, role)
		},
	}

	createUserCmd.Flags().String("name", "", "Display name (required)")
	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")
	createUserCmd.Flags().String("role", "user", "User role (user, admin)")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print HomeSkill-Hub version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Println("HomeSkill-Hub Core")
				return
			}
			fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		},
	}
}

func openStore(cfg *config.Config) (ports.DocumentStore, error) {
	switch cfg.Storage.Backend {
	case "bolt":
		return boltdb.Open(cfg.Storage.Path)
	case "json", "":
		return jsonfile.Open(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
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
	defer appLogger.Sync()

	store, err := openStore(cfg)
	if err != nil {
		appLogger.Fatalw("Failed to open document store", "error", err, "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	}
	defer store.Close()

	blobStore, err := blob.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		appLogger.Fatalw("Failed to prepare uploads directory", "error", err, "dir", cfg.Uploads.Dir)
	}

	srv, err := server.New(cfg, store, blobStore, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting HomeSkill-Hub API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Backend,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Infow("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
	}
}

func inspectStore() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()

	err = store.View(context.Background(), func(doc *entities.Document) error {
		fmt.Printf("Backend: %s (%s)\n", cfg.Storage.Backend, cfg.Storage.Path)
		fmt.Printf("  users:    %d\n", len(doc.Users))
		fmt.Printf("  tasks:    %d\n", len(doc.Tasks))
		fmt.Printf("  profiles: %d\n", len(doc.Profiles))
		fmt.Printf("  reviews:  %d\n", len(doc.Reviews))
		fmt.Printf("  ratings:  %d\n", len(doc.Ratings))
		fmt.Printf("  messages: %d\n", len(doc.Messages))
		fmt.Println("Counters:")
		for _, key := range []string{
			entities.CounterUser, entities.CounterTask, entities.CounterProfile,
			entities.CounterReview, entities.CounterRating, entities.CounterMessage,
		} {
			fmt.Printf("  %-10s %d\n", key, doc.Counters[key])
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}
}

func reconcileStore() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Opening the store reconciles counters against the collections and
	// rewrites the document. An empty update forces the flush on backends
	// that persist lazily.
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()

	err = store.Update(context.Background(), func(doc *entities.Document) error { return nil })
	if err != nil {
		log.Fatalf("Failed to rewrite document: %v", err)
	}

	fmt.Println("Counters reconciled")
	inspectCounters(store)
}

func inspectCounters(store ports.DocumentStore) {
	_ = store.View(context.Background(), func(doc *entities.Document) error {
		for _, key := range []string{
			entities.CounterUser, entities.CounterTask, entities.CounterProfile,
			entities.CounterReview, entities.CounterRating, entities.CounterMessage,
		} {
			fmt.Printf("  %-10s %d\n", key, doc.Counters[key])
		}
		return nil
	})
}

func createUser(name, email, password, role string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()

	userRole := entities.UserRole(role)
	if !userRole.IsValid() {
		log.Fatalf("Invalid role %q (want user or admin)", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewUserRepository(store)
	user, err := userRepo.Create(context.Background(), &entities.User{
		Name:         name,
		Email:        entities.NormalizeEmail(email),
		PasswordHash: string(hashedPassword),
		Role:         userRole,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %d\n", user.ID)
	fmt.Printf("  Name: %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
}
