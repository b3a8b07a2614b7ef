// Package config holds the settings shared by every blogdex command:
// chunk window geometry, result count, model and host names, and file and
// database locations.
//
// Values start from DefaultConfig, can be overridden with functional options
// and are read from BLOGDEX_* environment variables by FromEnv, which first
// loads an optional .env file.
package config
