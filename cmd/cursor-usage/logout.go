package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cursortools/usage-agent/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored session credential",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	repo := newCredentialRepo(config.New())
	if err := repo.Delete(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
