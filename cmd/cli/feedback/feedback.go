package feedback

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/feedback-board/cmd/cli/output"
	"github.com/crucial707/feedback-board/cmd/cli/root"
	"github.com/crucial707/feedback-board/internal/config"
	"github.com/crucial707/feedback-board/internal/db"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	feedbackCmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect feedback entries",
	}

	listCmd := &cobra.Command{
		Use:   "list USERNAME",
		Short: "List feedback owned by a user",
		Args:  cobra.ExactArgs(1),
		RunE:  withDB(runList),
	}

	orphansCmd := &cobra.Command{
		Use:   "orphans",
		Short: "Count feedback rows whose owner no longer exists",
		RunE:  withDB(runOrphans),
	}

	feedbackCmd.AddCommand(listCmd, orphansCmd)
	root.GetRoot().AddCommand(feedbackCmd)
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
// List Feedback
// ==========================
func runList(cmd *cobra.Command, args []string, database *sql.DB) error {
	username := args[0]

	feedbackRepo := repo.NewFeedbackRepo(database)
	items, err := feedbackRepo.ListByUser(context.Background(), username)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, fb := range items {
		rows = append(rows, []interface{}{fb.ID, fb.Title, fb.Content})
	}
	output.RenderTable([]string{"ID", "Title", "Content"}, rows)
	return nil
}

// ==========================
// Count Orphans
// ==========================
func runOrphans(cmd *cobra.Command, args []string, database *sql.DB) error {
	feedbackRepo := repo.NewFeedbackRepo(database)
	n, err := feedbackRepo.CountOrphans(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Orphaned feedback rows: %d\n", n)
	return nil
}
