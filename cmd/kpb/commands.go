package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubepolicy/kpb/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kpb",
		Short: "KubePolicy PR Bot — security policy linter for Kubernetes manifests",
	}
	root.AddCommand(newScanCmd())
	root.AddCommand(newActionCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}
