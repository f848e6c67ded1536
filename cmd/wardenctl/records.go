package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/cmd/warden/config"
	"github.com/wardenhq/warden/delivery"
	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage timed status records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List the records of a policy kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		kind, err := model.ParsePolicyKind(args[0])
		if err != nil {
			return err
		}
		records, err := backends.Records.List(kind)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

var decideActor string

var recordsDecideCmd = &cobra.Command{
	Use:   "decide <kind> <subject> <approve|deny>",
	Short: "Decide a pending record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		kind, err := model.ParsePolicyKind(args[0])
		if err != nil {
			return err
		}
		decision, err := engine.ParseDecision(args[2])
		if err != nil {
			return err
		}
		record, err := newEngine().Decide(kind, args[1], decideActor, decision)
		if err != nil {
			return err
		}
		fmt.Printf("record for %s is now %s\n", record.SubjectID, record.Status)
		return nil
	},
}

var recordsExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Run one expiry sweep over all kinds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		newEngine().ExpireDue()
		log.Println("sweep finished")
		return nil
	},
}

// newEngine builds an engine on the loaded backends with the CLI user as
// superuser, so decisions taken at the terminal are not capability-gated.
func newEngine() *engine.Engine {
	c := config.Get()
	superuser := decideActor
	if superuser == "" {
		superuser = c.Superuser
	}
	return engine.New(
		backends.Records,
		delivery.NewLogNotifier(),
		delivery.NewStaticDirectory(c.Delivery.Directory),
		&engine.Options{
			Events:    backends.Events,
			Authz:     backends.Authz,
			Policies:  c.Policies.Policies(),
			Superuser: superuser,
		},
	)
}

func init() {
	recordsDecideCmd.Flags().StringVarP(&decideActor, "actor", "a", "", "the subject id to act as")
	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsDecideCmd)
	recordsCmd.AddCommand(recordsExpireCmd)
}
