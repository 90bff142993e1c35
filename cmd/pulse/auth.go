package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/pulse/internal/cli"
	"github.com/Veraticus/pulse/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the refresh token for future use
3. Update your config file with the token

Service account users can skip this and set sheets.service_account_path instead.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback-addr", "", "local address for the OAuth2 redirect (default localhost:8085)")
	cmd.Flags().Bool("force", false, "ignore a saved token and run the browser flow again")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	configDir, err := pulseConfigDir()
	if err != nil {
		return err
	}
	tokenFile := filepath.Join(configDir, "sheets-token.json")
	callback, _ := cmd.Flags().GetString("callback-addr")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	oauthConfig := sheets.OAuth2Config{
		Logger:       slog.Default(),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	}
	authorize := sheets.GetOrCreateToken
	if force, _ := cmd.Flags().GetBool("force"); force {
		authorize = sheets.AuthenticateOAuth2Interactive
	}

	token, err := authorize(ctx, oauthConfig)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.client_id", clientID)
	viper.Set("sheets.client_secret", clientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(configDir); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		cmd.Println(cli.FormatWarning("Could not save the refresh token. Add this to your config.yaml:"))
		cmd.Printf("sheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	cmd.Println(cli.FormatSuccess("Google Sheets is now configured. Try 'pulse log mood'."))
	return nil
}

func pulseConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "pulse"), nil
}

func saveConfig(configDir string) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(configDir, "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
