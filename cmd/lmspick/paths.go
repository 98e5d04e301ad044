package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmspick-dev/lmspick/internal/auth"
	"github.com/lmspick-dev/lmspick/internal/config"
	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/paths"
)

// PathsInfo holds all resolved paths for JSON output.
type PathsInfo struct {
	ConfigRoot  string `json:"config_root"`
	StateRoot   string `json:"state_root"`
	ConfigFile  string `json:"config_file"`
	Credentials string `json:"credentials"`
	LogFile     string `json:"log_file"`
	HistoryFile string `json:"history_file"`
	UpdateState string `json:"update_state"`
	APIURL      string `json:"api_url"`
	AuthSource  string `json:"auth_source"`
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where lmspick stores files",
		Long: `Display all file and directory paths used by lmspick.

Useful for debugging, scripting, and understanding where configuration,
state, and credential files are stored on this system.`,
		Example: `  lmspick paths
  lmspick paths --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			info := resolvePathsInfo()

			if out.JSON {
				return out.PrintJSON(info)
			}

			out.Print("Config root:    %s\n", info.ConfigRoot)
			out.Print("State root:     %s\n", info.StateRoot)
			out.Print("\n")
			out.Print("Config file:    %s\n", info.ConfigFile)
			out.Print("Credentials:    %s\n", info.Credentials)
			out.Print("Log file:       %s\n", info.LogFile)
			out.Print("History file:   %s\n", info.HistoryFile)
			out.Print("Update state:   %s\n", info.UpdateState)
			out.Print("\n")
			out.Print("API URL:        %s\n", info.APIURL)
			out.Print("Auth source:    %s\n", info.AuthSource)

			return nil
		},
	}
}

func resolvePathsInfo() PathsInfo {
	info := PathsInfo{}

	info.ConfigRoot = resolveOrError(paths.ConfigRoot)
	info.StateRoot = resolveOrError(paths.StateRoot)
	info.LogFile = resolveOrError(paths.DefaultLogFile)
	info.HistoryFile = resolveOrError(paths.HistoryFile)
	info.UpdateState = resolveOrError(paths.UpdateStateFile)
	info.Credentials = resolveOrError(paths.CredentialsFile)

	if cr := info.ConfigRoot; cr != "" {
		info.ConfigFile = cr + "/config.yaml"
	} else {
		info.ConfigFile = "<error: config root unavailable>"
	}

	cfg := config.Load()
	info.APIURL = cfg.APIURL()

	source, _ := auth.GetToken()
	if source == auth.SourceNone {
		info.AuthSource = "none"
	} else {
		info.AuthSource = string(source)
	}

	return info
}

func resolveOrError(fn func() (string, error)) string {
	val, err := fn()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	return val
}
