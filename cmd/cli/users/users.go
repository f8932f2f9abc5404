package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/feedback-board/cmd/cli/output"
	"github.com/crucial707/feedback-board/cmd/cli/root"
	"github.com/crucial707/feedback-board/internal/auth"
	"github.com/crucial707/feedback-board/internal/config"
	"github.com/crucial707/feedback-board/internal/db"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
		Long:  "List, create, or delete Feedback Board user accounts directly in the database.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE:  withDB(runList),
	}

	createCmd := &cobra.Command{
		Use:   "create USERNAME EMAIL FIRST_NAME LAST_NAME",
		Short: "Create a user",
		Long:  "Create a user with the password from --password (hashed before storage).",
		Args:  cobra.ExactArgs(4),
		RunE:  withDB(runCreate),
	}
	createCmd.Flags().String("password", "", "password for the new user (required)")
	_ = createCmd.MarkFlagRequired("password")

	deleteCmd := &cobra.Command{
		Use:   "delete USERNAME",
		Short: "Delete a user and all their feedback",
		Args:  cobra.ExactArgs(1),
		RunE:  withDB(runDelete),
	}

	usersCmd.AddCommand(listCmd, createCmd, deleteCmd)
	root.GetRoot().AddCommand(usersCmd)
}

// withDB opens the database from env config, runs fn, and closes it.
func withDB(fn func(cmd *cobra.Command, args []string, database *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close()
		return fn(cmd, args, database)
	}
}

// ==========================
// List Users
// ==========================
func runList(cmd *cobra.Command, args []string, database *sql.DB) error {
	userRepo := repo.NewUserRepo(database)
	users, err := userRepo.List(context.Background())
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{u.Username, u.Email, u.FullName()})
	}
	output.RenderTable([]string{"Username", "Email", "Name"}, rows)
	return nil
}

// ==========================
// Create User
// ==========================
func runCreate(cmd *cobra.Command, args []string, database *sql.DB) error {
	username, email, firstName, lastName := args[0], args[1], args[2], args[3]
	password, _ := cmd.Flags().GetString("password")

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	userRepo := repo.NewUserRepo(database)
	user, err := userRepo.Create(context.Background(), username, hash, email, firstName, lastName)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s <%s>\n", user.Username, user.Email)
	return nil
}

// ==========================
// Delete User
// ==========================
func runDelete(cmd *cobra.Command, args []string, database *sql.DB) error {
	username := args[0]

	userRepo := repo.NewUserRepo(database)
	if err := userRepo.Delete(context.Background(), username); err != nil {
		return err
	}

	fmt.Printf("Deleted user %s and their feedback\n", username)
	return nil
}
