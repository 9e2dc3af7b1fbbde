// Package config loads application configuration from environment variables
// into tagged structs.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for parsing. Every configuration type is parsed
// once and cached for the lifetime of the process.
//
// # Usage
//
//	var cfg seqqueue.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//	q := seqqueue.NewFromConfig(cfg)
//
// Additional .env files can be loaded before parsing with LoadEnv; later files
// override earlier ones.
//
// # Error Handling
//
// Sentinel errors ErrParsingConfig, ErrInvalidConfigType, ErrNilPointer and
// ErrLoadingEnvFile can be checked with errors.Is.
//
// # Testing Helpers
//
// ResetCache clears the cache between tests and ForceReloadConfig re-parses a
// single type after the environment changed.
package config
