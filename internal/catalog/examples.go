// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

// ConnectionExamples returns ready-to-paste connection snippets keyed by kind:
// "env", "basic", "encrypted", "scoped".
func ConnectionExamples() map[string]string {
	return map[string]string{
		"env": `# Set these environment variables
export SNOWFLAKE_ACCOUNT="your-account"
export SNOWFLAKE_USER="your-username"
export SNOWFLAKE_PASSWORD="your-password"
export SNOWFLAKE_WAREHOUSE="your-warehouse"
export SNOWFLAKE_DATABASE="FLIPSIDE_PROD_DB"`,

		"basic": `import "snowflip/cli/internal/client"
import "snowflip/cli/internal/connection"

c, err := client.New(connection.Options{Params: connection.Params{
    Account:   "your-account",
    User:      "your-username",
    Password:  "your-password",
    Warehouse: "your-warehouse",
}})
if err != nil {
    log.Fatal(err)
}
if err := c.Connect(ctx); err != nil {
    log.Fatal(err)
}
defer c.Disconnect()`,

		"encrypted": `// First, encrypt your credentials (or run: snowflip encrypt-creds)
ciphertext, key, err := creds.Encrypt("username", "password", "")

// Then connect with the bundle
c, err := client.New(connection.Options{
    Params:               connection.Params{Account: "your-account", Warehouse: "your-warehouse"},
    EncryptedCredentials: ciphertext,
    EncryptionKey:        key,
})`,

		"scoped": `// WithSession connects if needed and always disconnects,
// including when the body returns an error.
err := c.WithSession(ctx, func(ctx context.Context) error {
    res, err := c.Query(ctx, "SELECT * FROM ethereum.fact_transactions", client.WithLimit(10))
    if err != nil {
        return err
    }
    return res.Render(os.Stdout)
})`,
	}
}
