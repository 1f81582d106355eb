package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage service accounts",
}

// Flags for account create and login.
var (
	accountUsername string
	accountEmail    string
	accountPassword string
)

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a service account",
	Long: `Create an account for authenticating against the HTTP API.

The password is prompted for unless --password is given. Prefer the
prompt: flags end up in shell history.`,
	RunE: runAccountCreate,
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange credentials for a bearer token",
	RunE:  runAccountLogin,
}

func init() {
	accountCreateCmd.Flags().StringVar(
		&accountUsername, "username", "", "Account username (required)")
	accountCreateCmd.Flags().StringVar(
		&accountEmail, "email", "", "Account email (required)")
	accountCreateCmd.Flags().StringVar(
		&accountPassword, "password", "", "Account password (prompted if empty)")
	_ = accountCreateCmd.MarkFlagRequired("username")
	_ = accountCreateCmd.MarkFlagRequired("email")

	accountLoginCmd.Flags().StringVar(
		&accountUsername, "username", "", "Account username (required)")
	accountLoginCmd.Flags().StringVar(
		&accountPassword, "password", "", "Account password (prompted if empty)")
	_ = accountLoginCmd.MarkFlagRequired("username")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountLoginCmd)
	rootCmd.AddCommand(accountCmd)
}

// promptPassword reads a password without echo, falling back to the
// --password flag when stdin is not a terminal.
func promptPassword(cmd *cobra.Command, confirm bool) (string, error) {
	if accountPassword != "" {
		return accountPassword, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("stdin is not a terminal, pass --password")
	}

	cmd.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if confirm {
		cmd.Print("Confirm password: ")
		second, err := term.ReadPassword(int(syscall.Stdin))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
	}

	return string(first), nil
}

func runAccountCreate(cmd *cobra.Command, _ []string) error {
	password, err := promptPassword(cmd, true)
	if err != nil {
		return err
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	account, err := a.accounts.Create(cmd.Context(), accountUsername, accountEmail, password)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	cmd.Printf("Created account %s (%s)\n", account.Username, account.ID)
	return nil
}

func runAccountLogin(cmd *cobra.Command, _ []string) error {
	password, err := promptPassword(cmd, false)
	if err != nil {
		return err
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	token, _, err := a.accounts.Login(cmd.Context(), accountUsername, password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	// The token goes to stdout so it can be captured by scripts.
	fmt.Fprintln(os.Stdout, token)
	return nil
}
