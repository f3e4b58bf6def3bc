package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rtxswitch/configs"
	"github.com/Aman-CERP/rtxswitch/internal/config"
	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user configuration file.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (<user config dir>/rtxswitch/config.yaml)
  3. Environment variables (RTXSWITCH_*)
  4. Command-line flags (--library, --no-color, --plain)`,
		Example: `  # Create user config from template
  rtxswitch config init

  # Show effective configuration
  rtxswitch config show

  # Print user config file path
  rtxswitch config path`,
		Annotations: map[string]string{optionalConfig: "true"},
	}

	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user configuration file from the commented template.

With --force an existing file is backed up next to itself
(config.yaml.bak.<timestamp>, newest three kept) and replaced.`,
		Example: `  # Create user config
  rtxswitch config init

  # Replace existing config, keeping a backup
  rtxswitch config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and overwrite an existing configuration")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging defaults, the user config file,
environment variables and flags.`,
		Example: `  rtxswitch config show
  rtxswitch config show --json
  rtxswitch config show --source defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigShow(cmd, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Long:  `Print the path to the user configuration file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout()).WithColor(!a.uiConfig(cmd).NoColor)
	configPath := config.GetUserConfigPath()

	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Statusf("📁", "Location: %s", configPath)
			out.Newline()
			out.Status("💡", "Use --force to replace it (a backup is kept)")
			return nil
		}

		backupPath, err := config.BackupUserConfig()
		if err != nil {
			return amerrors.InternalError("failed to back up config", err)
		}
		out.Statusf("💾", "Backup: %s", backupPath)
	}

	if err := os.MkdirAll(config.GetUserConfigDir(), 0o755); err != nil {
		return amerrors.InternalError("failed to create config directory", err)
	}
	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return amerrors.InternalError("failed to write config file", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the file to customize settings")
	out.Status("", "  2. Run 'rtxswitch config show' to verify")

	return nil
}

func (a *app) runConfigShow(cmd *cobra.Command, jsonOutput bool, source string) error {
	var cfg *config.Config
	switch source {
	case "merged":
		cfg = a.cfg
	case "defaults":
		cfg = config.NewConfig()
	default:
		return amerrors.ValidationError(fmt.Sprintf("invalid source %q", source), nil).
			WithSuggestion("Use merged or defaults.")
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return amerrors.InternalError("failed to marshal config", err)
	}
	out := output.New(cmd.OutOrStdout())
	out.Statusf("⚙️ ", "Configuration (%s)", source)
	out.Code(string(data))
	return nil
}
