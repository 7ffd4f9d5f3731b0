package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/backend"
)

var (
	loginToken     string
	loginExpiresIn time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the bearer token issued by the backend",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored bearer token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Bearer token (required)")
	loginCmd.Flags().DurationVar(&loginExpiresIn, "expires-in", 0, "Token lifetime, e.g. 12h (0 = no expiry)")
	_ = loginCmd.MarkFlagRequired("token")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := loadApp()

	tok, err := backend.TokenFromString(loginToken)
	if err != nil {
		fail(err)
	}
	if loginExpiresIn > 0 {
		tok.Expiry = time.Now().Add(loginExpiresIn)
	}
	if err := backend.SaveToken(a.cfg.DataDir, tok); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Logged in. Token stored in %s\n", backend.TokenPath(a.cfg.DataDir))
	if a.cfg.Employee.ID == "" {
		warn("employee.id is not set in %s; reports will carry no employee id", a.cfg.Path)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := loadApp()
	if err := backend.DeleteToken(a.cfg.DataDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println("Logged out.")
	return nil
}
