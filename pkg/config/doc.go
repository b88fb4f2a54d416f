// Package config loads env-tagged configuration structs.
//
// It wraps github.com/caarlos0/env/v11 for parsing and github.com/joho/godotenv
// for optional dotenv files:
//
//	type Config struct {
//	    Timeout time.Duration `env:"TIMEOUT" envDefault:"2s"`
//	    PG      pg.Config     `envPrefix:"PG_"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.WithPrefix("AUTHZ_"), config.WithEnvFiles(".env"))
//
// Parsing errors wrap ErrParsingConfig; dotenv failures wrap ErrLoadingEnvFile.
package config
