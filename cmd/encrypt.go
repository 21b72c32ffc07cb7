// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snowflip/cli/internal/creds"
	"snowflip/cli/internal/keychain"
)

var (
	encryptUser     string
	encryptPassword string
	encryptSave     bool
)

// encryptCredsCmd seals a username/password pair into an encrypted bundle.
// The bundle is printed for out-of-band storage; nothing is written unless
// --save puts it in the OS keychain.
var encryptCredsCmd = &cobra.Command{
	Use:   "encrypt-creds",
	Short: "Encrypt Snowflake credentials for secure storage",
	Long: `The encrypt-creds command seals a username and password into an encrypted
credential bundle (ciphertext plus key). Store the two parts separately and
pass them back via --encrypted-credentials/--encryption-key or use --save to
keep the bundle in the OS keychain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := encryptPassword
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimSpace(string(raw))
		}
		if password == "" {
			return errors.New("password is required")
		}

		ciphertext, key, err := creds.Encrypt(encryptUser, password, "")
		if err != nil {
			return err
		}

		pterm.Println("Encrypted credentials generated:")
		pterm.Println()
		fmt.Printf("Encrypted credentials: %s\n", ciphertext)
		fmt.Printf("Encryption key:        %s\n", key)
		pterm.Println()
		pterm.Println("⚠️  Store these securely and separately. Anyone holding both can")
		pterm.Println("   recover the password.")

		if encryptSave {
			km, err := keychain.GetManager()
			if err != nil {
				pterm.Println("❌ Secure storage is not available on this system.")
				pterm.Println("   Bundle printed above but not saved.")
				return err
			}
			if err := km.SaveBundle(ciphertext, key); err != nil {
				pterm.Println("❌ Failed to save bundle to the OS keychain.")
				return err
			}
			pterm.Println("✅ Bundle saved to the OS keychain.")
		}
		return nil
	},
}

func init() {
	encryptCredsCmd.Flags().StringVarP(&encryptUser, "user", "u", "", "Username to encrypt")
	encryptCredsCmd.Flags().StringVarP(&encryptPassword, "password", "p", "", "Password to encrypt (prompted when omitted)")
	encryptCredsCmd.Flags().BoolVar(&encryptSave, "save", false, "Also store the bundle in the OS keychain")
	_ = encryptCredsCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(encryptCredsCmd)
}
