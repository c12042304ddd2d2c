package main

import (
	"fmt"
	"os"

	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/ArunDev-07/apple-podcast-backend/internal/models"
	"github.com/ArunDev-07/apple-podcast-backend/internal/seed"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), "logs/cli.log"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	rootCmd := &cobra.Command{
		Use:   "podcastctl",
		Short: "Admin tooling for the podcast backend",
	}

	rootCmd.AddCommand(migrateCmd(), seedCmd(), promoteAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connectDB() error {
	if err := database.Initialize(); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectDB(); err != nil {
				return err
			}
			defer database.Close()
			if err := database.Migrate(); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cfg := seed.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with fake catalog and engagement data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectDB(); err != nil {
				return err
			}
			defer database.Close()
			if err := database.Migrate(); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			if err := seed.Run(cfg); err != nil {
				return err
			}
			fmt.Println("Seed complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Users, "users", cfg.Users, "number of users to create")
	cmd.Flags().IntVar(&cfg.Podcasts, "podcasts", cfg.Podcasts, "number of podcasts to create")
	cmd.Flags().IntVar(&cfg.EpisodesPerPodcast, "episodes", cfg.EpisodesPerPodcast, "episodes per podcast")
	cmd.Flags().StringVar(&cfg.Password, "password", cfg.Password, "password for all seeded accounts")

	return cmd
}

func promoteAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant admin rights to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectDB(); err != nil {
				return err
			}
			defer database.Close()

			email := args[0]
			result := database.DB.Model(&models.User{}).
				Where("LOWER(email) = LOWER(?)", email).
				Update("is_admin", true)
			if result.Error != nil {
				return fmt.Errorf("promoting user: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("no user found with email %s", email)
			}
			fmt.Printf("%s is now an admin\n", email)
			return nil
		},
	}
}
