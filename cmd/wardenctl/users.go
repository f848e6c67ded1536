package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin API users",
}

var userDisplayName string

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an admin API user; the password is read from the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		fmt.Print("Password: ")
		password, err := term.ReadPassword(0)
		fmt.Println()
		if err != nil {
			return err
		}
		u, err := backends.Users.Create(args[0], string(password), userDisplayName)
		if err != nil {
			return err
		}
		fmt.Printf("created user '%s'\n", u.Username)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVarP(&userDisplayName, "display-name", "d", "", "the display name of the user")
	userCmd.AddCommand(userAddCmd)
}
