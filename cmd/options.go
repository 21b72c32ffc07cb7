// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snowflip/cli/internal/connection"
	"snowflip/cli/internal/keychain"
)

// connFlags holds connection parameter overrides shared by the test and query
// commands. Anything left empty falls back to environment variables inside
// connection.NewManager.
type connFlags struct {
	account    string
	user       string
	password   string
	warehouse  string
	database   string
	schema     string
	creds      string
	credsKey   string
	useKeyring bool
}

func (f *connFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "Snowflake account identifier")
	cmd.Flags().StringVar(&f.user, "user", "", "Username")
	cmd.Flags().StringVar(&f.password, "password", "", "Password")
	cmd.Flags().StringVar(&f.warehouse, "warehouse", "", "Warehouse")
	cmd.Flags().StringVar(&f.database, "database", "", "Database (default "+connection.DefaultDatabase+")")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Schema (default "+connection.DefaultSchema+")")
	cmd.Flags().StringVar(&f.creds, "encrypted-credentials", "", "Encrypted credential bundle")
	cmd.Flags().StringVar(&f.credsKey, "encryption-key", "", "Key matching --encrypted-credentials")
	cmd.Flags().BoolVar(&f.useKeyring, "use-keyring", false, "Load the bundle saved via encrypt-creds --save")
}

// options assembles connection.Options from flags. With --use-keyring and no
// explicit bundle, the bundle stored in the OS keychain is used.
func (f *connFlags) options() (connection.Options, error) {
	opts := connection.Options{
		Params: connection.Params{
			Account:   f.account,
			User:      f.user,
			Password:  f.password,
			Warehouse: f.warehouse,
			Database:  f.database,
			Schema:    f.schema,
		},
		EncryptedCredentials: f.creds,
		EncryptionKey:        f.credsKey,
	}

	if f.useKeyring && opts.EncryptedCredentials == "" {
		km, err := keychain.GetManager()
		if err != nil {
			return opts, err
		}
		ciphertext, key, err := km.LoadBundle()
		if err != nil {
			pterm.Println("⚠️  No bundle found in the OS keychain.")
			pterm.Println("   Save one first: snowflip encrypt-creds --user <u> --save")
			return opts, err
		}
		opts.EncryptedCredentials = ciphertext
		opts.EncryptionKey = key
	}
	return opts, nil
}
