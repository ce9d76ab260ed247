package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long: `Print the configuration after applying defaults, the config file and
environment variables. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.SessionCookie != "" {
			shown.SessionCookie = mask(shown.SessionCookie)
		}
		if shown.BearerToken != "" {
			shown.BearerToken = mask(shown.BearerToken)
		}

		data, err := yaml.Marshal(&shown)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configSetOriginCmd = &cobra.Command{
	Use:     "set-origin <url>",
	Short:   "Set the host origin",
	Example: "  slaguard config set-origin https://acme.example.com",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, err := normalizeOrigin(args[0])
		if err != nil {
			return err
		}

		fileCfg, err := loadFileConfig()
		if err != nil {
			return err
		}
		fileCfg.Origin = origin
		if err := fileCfg.Save(cfgPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Origin set to %s\n", origin)
		return nil
	},
}

// normalizeOrigin は scheme://host だけを残す
func normalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("origin must start with http:// or https://: %s", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("origin has no host: %s", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetOriginCmd)
}
