package main

import (
	"fmt"
	"os"
)

// Flag name constants.
const (
	fnAddr          = "addr"
	fnDataDir       = "dataDir"
	fnAdminPassword = "adminPassword"
	fnLogLevel      = "logLevel"
)

// Environment constants.
const (
	envAddr          = "SDSQL_ADDR"
	envDataDir       = "SDSQL_DATA_DIR"
	envAdminPassword = "SDSQL_ADMIN_PASSWORD"
	envLogLevel      = "SDSQL_LOG_LEVEL"
)

var (
	addr          string
	dataDir       string
	adminPassword string
	logLevel      string
)

// getStringEnv retrieves the string value of the environment variable
// named by key. If the variable is not present, defValue is returned.
func getStringEnv(key, defValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defValue
	}
	return value
}

func flagUsage(name, env string) string {
	return fmt.Sprintf("(environment variable: %s)", env)
}
