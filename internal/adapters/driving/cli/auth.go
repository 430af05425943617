package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage server authentication",
	Long: `Configure which search server to use and how to authenticate.

The access token is stored in the local config file with restricted
permissions. Servers allowing anonymous access need no token.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login [server-url]",
	Short: "Configure a search server",
	Long: `Store the server URL and access token.

The token is read from --token, or prompted for interactively without
echo. Press enter at the prompt to use anonymous access.

Examples:
  sercha-stream auth login https://sourcegraph.example.com
  sercha-stream auth login https://sourcegraph.example.com --token sgp_xxx`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured server",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "access token (prompted for if omitted)")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	url := strings.TrimRight(strings.TrimSpace(args[0]), "/")
	if url == "" {
		return errors.New("server URL must not be empty")
	}

	token := authToken
	if token == "" {
		var err error
		token, err = promptToken(cmd)
		if err != nil {
			return err
		}
	}

	if err := settingsService.SetServer(url, token); err != nil {
		return fmt.Errorf("storing server configuration: %w", err)
	}

	if token == "" {
		cmd.Printf("Configured %s (anonymous access)\n", url)
	} else {
		cmd.Printf("Configured %s\n", url)
	}
	return nil
}

// promptToken reads a token from the terminal without echo. When stdin is
// not a terminal it falls back to a plain line read so the command stays
// scriptable.
func promptToken(cmd *cobra.Command) (string, error) {
	cmd.Print("Access token (empty for anonymous): ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimSpace(line), nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()
	if settings.ServerURL == "" {
		cmd.Println("No server configured.")
		return nil
	}

	cmd.Printf("Server: %s\n", settings.ServerURL)
	if settings.AccessToken != "" {
		cmd.Printf("Token: %s\n", maskToken(settings.AccessToken))
	} else {
		cmd.Println("Token: (anonymous access)")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()
	if settings.ServerURL == "" {
		cmd.Println("No server configured.")
		return nil
	}

	if err := settingsService.SetServer(settings.ServerURL, ""); err != nil {
		return fmt.Errorf("removing access token: %w", err)
	}
	cmd.Println("Access token removed.")
	return nil
}
