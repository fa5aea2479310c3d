//go:build !windows && !linux && !darwin

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serviceCmd)
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the mksyncd system service",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Service management is not available on this platform.")
	},
}
