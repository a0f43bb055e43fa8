package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/flexigpt/reflexhook-go/internal/registry"
	"github.com/flexigpt/reflexhook-go/routetool"
)

func registryCmd(a *app) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Print the documents and skills discovered in a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Scan(cmd.Context(), workspace, a.logger)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reg)
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory to scan")
	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the llmtools tool definitions this module provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(routetool.Tools())
		},
	}
}
