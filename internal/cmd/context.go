package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the persistent flags of one invocation.
type CommandContext struct {
	// Output control
	Verbose bool
	Format  string
	NoColor bool

	// Configuration
	APIURL     string
	ConfigPath string
	EnvFile    string
}

// NewCommandContext extracts command context from cobra.Command flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose:    verbose,
		Format:     format,
		NoColor:    noColor,
		APIURL:     apiURL,
		ConfigPath: configPath,
		EnvFile:    envFile,
	}, nil
}
