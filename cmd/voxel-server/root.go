package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "voxel-server",
		Short:         "Image ingestion and lifecycle server for the voxel comment widget",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "voxel.toml", "Configuration file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Delete every staged upload immediately, as the nightly sweep would",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(configFlag)
		},
	})

	return rootCmd
}
