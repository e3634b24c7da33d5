package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the queue's database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := current.store.Init(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized", current.dbPath)
			return nil
		},
	}
}
