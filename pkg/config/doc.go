// Package config loads typed configuration from environment variables.
//
// Structs describe their variables with `env` tags understood by
// github.com/caarlos0/env. Before parsing, Load applies a dotenv file through
// github.com/joho/godotenv: the file named by ENV_FILE, or ".env" when that
// is unset. A missing default file is ignored; a missing explicit one is an
// error. Real environment variables always take precedence over the file.
//
//	type Config struct {
//		Addr  string `env:"HTTP_ADDR" envDefault:":8080"`
//		Mongo string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Structs implementing Validator get Validate called after parsing, for
// rules that span several variables.
//
// # Errors
//
//   - ErrParse: a variable is missing or has the wrong format.
//   - ErrInvalid: Validate rejected the parsed struct.
//   - ErrEnvFile: the dotenv file could not be read.
//   - ErrNilPointer: Load was given a nil pointer.
package config
