// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"accessgate/cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change persisted settings",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting (base-url, storage-key, timeout, log-level)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings()
		if err != nil {
			return err
		}
		if err := s.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveSettings(s); err != nil {
			return err
		}
		pterm.Success.Printfln("%s = %s", args[0], args[1])
		return nil
	},
}

// effectiveConfig is what a session would run with, after every layer.
type effectiveConfig struct {
	BaseURL    string `json:"baseUrl"`
	StorageKey string `json:"storageKey"`
	Timeout    string `json:"timeout"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, _, err := loadLayers()
		if err != nil {
			return err
		}
		holder.SetActive(config.Config{BaseURL: flagBaseURL, StorageKey: flagStorageKey})
		c := holder.Get()
		eff := effectiveConfig{BaseURL: c.BaseURL, StorageKey: c.StorageKey, Timeout: c.Timeout.String()}
		if flagJSON {
			return printJSON(cmd, eff)
		}
		base := eff.BaseURL
		if base == "" {
			base = "(not set)"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "base-url:    %s\n", base)
		fmt.Fprintf(out, "storage-key: %s\n", eff.StorageKey)
		fmt.Fprintf(out, "timeout:     %s\n", eff.Timeout)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
