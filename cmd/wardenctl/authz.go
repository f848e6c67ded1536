package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/storage/model"
)

var authzCmd = &cobra.Command{
	Use:   "authz",
	Short: "Manage discipline authorization levels",
}

var authzActor string

var authzSetCmd = &cobra.Command{
	Use:   "set <subject> <level>",
	Short: "Grant a subject a discipline access level (0 denies)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		level, err := strconv.Atoi(args[1])
		if err != nil || level < 0 || level > 4 {
			return fmt.Errorf("level must be a number between 0 and 4")
		}
		entry := model.AuthorizationEntry{
			SubjectID:    args[0],
			Decision:     model.AuthzAccepted,
			AccessLevel:  level,
			AuthorizedBy: authzActor,
		}
		if level == 0 {
			entry.Decision = model.AuthzDenied
			entry.AccessLevel = 0
		}
		if err = backends.Authz.Set(entry); err != nil {
			return err
		}
		fmt.Printf("%s: %s (level %d)\n", entry.SubjectID, entry.Decision, entry.AccessLevel)
		return nil
	},
}

var authzListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all authorization entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		entries, err := backends.Authz.List()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	authzSetCmd.Flags().StringVarP(&authzActor, "actor", "a", "", "the subject id authorizing the change")
	authzCmd.AddCommand(authzSetCmd)
	authzCmd.AddCommand(authzListCmd)
}
