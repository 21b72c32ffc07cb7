// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets.
//
// Driver errors can echo back the DSN handed to them, which for Snowflake embeds
// user:password@account. Everything printed to the terminal or a log line goes
// through Mask first.
package logging

import (
	"regexp"
)

var (
	rePassword = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	// user:pass@account, with or without a scheme prefix
	reDSNPass = regexp.MustCompile(`(?i)([a-z0-9+.-]+://)?([^\s:/@]+):([^@\s]+)(@)`)
	reFernet  = regexp.MustCompile(`\bgAAAAA[A-Za-z0-9_-]+={0,2}`) // fernet tokens start with version 0x80 + timestamp
	reEnvPwd  = regexp.MustCompile(`(SNOWSQL_PWD=)([^\s;&]+)`)
)

// Mask replaces sensitive values in the input string with "*".
// For DSN strings, both username and password are masked.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reDSNPass.ReplaceAllString(out, "$1*:*$4")
	out = reFernet.ReplaceAllString(out, "***")
	// SNOWFLAKE_PASSWORD= is already caught by rePassword above
	out = reEnvPwd.ReplaceAllString(out, "$1***")
	return out
}
