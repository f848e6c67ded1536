package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/cmd/warden/config"
	"github.com/wardenhq/warden/storage/model"
)

var rootCmd = &cobra.Command{
	Use:   "wardenctl",
	Short: "wardenctl can help you manage your Warden instance",
	Long:  "wardenctl can help you manage your Warden instance",
}

var configFile string
var backends model.Backends

func loadConfig() error {
	config.Load(configFile)
	log.Println("Loaded Config")
	c := config.Get()

	var err error
	backends, err = config.LoadStorageBackends(c.Storage, c.API.Admin.Argon2idParams)
	if err != nil {
		log.Fatal(err)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "the config file to use")
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(authzCmd)
	rootCmd.AddCommand(userCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
