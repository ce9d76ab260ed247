package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tkc/slaguard/internal/config"
	"github.com/tkc/slaguard/internal/host"
)

var authVerify bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the host session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the host session cookie",
	Long: `Store the session cookie of a logged-in browser tab.

Copy the Cookie request header from your browser's developer tools
(Network tab, any request to the host) and paste it here, e.g.:

  .ASPXAUTH=...; ASP.NET_SessionId=...

If the host sits behind an OAuth gateway, also set bearer_token in the config
file or SLAGUARD_BEARER_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "ブラウザのCookieヘッダーを貼り付けてください")
		fmt.Fprintln(out)
		fmt.Fprint(out, "Cookie: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		cookie, err := reader.ReadString('\n')
		if err != nil && cookie == "" {
			return fmt.Errorf("failed to read cookie: %w", err)
		}
		cookie, _, err = host.NormalizeCookie(cookie)
		if err != nil {
			return err
		}

		fileCfg, err := loadFileConfig()
		if err != nil {
			return err
		}
		fileCfg.SessionCookie = cookie
		if err := fileCfg.Save(cfgPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintln(out, "✓ Session cookie saved successfully")
		if fileCfg.Origin == "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next step: slaguard config set-origin <url>")
		}
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg.SessionCookie == "" {
			fmt.Fprintln(out, "✗ Not logged in")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run: slaguard auth login")
			return nil
		}

		// Cookieの一部を表示
		fmt.Fprintf(out, "✓ Session cookie stored (%s)\n", mask(cfg.SessionCookie))
		if cfg.BearerToken != "" {
			fmt.Fprintf(out, "  Bearer token: %s\n", mask(cfg.BearerToken))
		}
		if cfg.Origin != "" {
			fmt.Fprintf(out, "  Host: %s\n", cfg.Origin)
		}

		if !authVerify {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		client, err := newHostClient(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout+5*time.Second)
		defer cancel()

		if _, err := client.ReadToken(ctx); err != nil {
			fmt.Fprintf(out, "✗ Session check failed: %v\n", err)
			return fmt.Errorf("session is not usable")
		}
		fmt.Fprintln(out, "✓ Anti-forgery token readable; session is valid")
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session cookie",
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := loadFileConfig()
		if err != nil {
			return err
		}
		fileCfg.SessionCookie = ""
		fileCfg.BearerToken = ""
		if err := fileCfg.Save(cfgPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out successfully")
		return nil
	},
}

// loadFileConfig は環境変数を適用せずに設定ファイルだけを読む。
// 保存時に環境変数の値が書き込まれないようにするため
func loadFileConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return c, nil
}

// mask は先頭と末尾の4文字だけを残す
func mask(secret string) string {
	r := []rune(secret)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}

func init() {
	authStatusCmd.Flags().BoolVar(&authVerify, "verify", false, "Check that the session can read the anti-forgery token")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}
