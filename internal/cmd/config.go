package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/maison/internal/config"
	"github.com/felixgeelhaar/maison/internal/ux"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit Maison configuration",
	Long: `Manage the client configuration stored at ~/.maison/config.yaml
(or $MAISON_CONFIG).

Values are layered: built-in defaults, then the config file, then a .env
file, then MAISON_* environment variables, then command-line flags.

Examples:
  # View the effective configuration
  maison config view

  # Point the client at another API
  maison config set api.base_url https://shop.example.com/api

  # Read a single value
  maison config get search.debounce

  # Show configuration file path
  maison config path
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Retrieve a value by dotted key, e.g. api.base_url. See 'maison config keys'.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  `Set a value by dotted key, e.g. api.timeout 45s. The file is only written when the result is valid.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

type configView struct {
	Config *config.Config
}

func (v configView) Data() any {
	masked := *v.Config
	if masked.Auth.TokenPassphrase != "" {
		masked.Auth.TokenPassphrase = "********"
	}
	return masked
}

func (v configView) Text(s ux.Styles) string {
	rows := make([][]string, 0, len(config.Keys()))
	for _, key := range config.Keys() {
		value, err := v.Config.Get(key)
		if err != nil {
			continue
		}
		if key == "auth.token_passphrase" && value != "" {
			value = "********"
		}
		rows = append(rows, []string{key, value})
	}
	return s.Table([]string{"Key", "Value"}, rows)
}

func runConfigView(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	return e.print(configView{Config: e.cfg})
}

// fileConfig loads the config file alone, without environment overrides, so
// that edits never persist values that came from the environment.
func fileConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create command context: %w", err)
	}
	path := cc.ConfigPath
	if path == "" {
		if path, err = config.Path(); err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", ux.FormatError(err, "load configuration")
	}
	return cfg, path, nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	cfg, path, err := fileConfig(cmd)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := config.Save(cfg, path); err != nil {
			return ux.FormatError(err, "create config file")
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	c := exec.CommandContext(cmd.Context(), parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	edited, err := config.Load(path)
	if err != nil {
		return ux.FormatError(err, "read edited config")
	}
	if err := edited.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved to", path)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	value, err := e.cfg.Get(args[0])
	if err != nil {
		return err
	}
	if e.text() {
		_, err = fmt.Fprintln(e.w, value)
		return err
	}
	return e.print(map[string]string{args[0]: value})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, path, err := fileConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return ux.FormatError(err, "save configuration")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	for _, key := range config.Keys() {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	_, path, err := fileConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
