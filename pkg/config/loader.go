package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer = errors.New("config: nil destination")
	ErrEnvFile    = errors.New("config: cannot read env file")
	ErrParse      = errors.New("config: cannot parse environment")
	ErrInvalid    = errors.New("config: invalid configuration")
)

// EnvFileVar names the variable that points at the dotenv file. When it is
// unset ".env" is tried and silently skipped if missing.
const EnvFileVar = "ENV_FILE"

// Validator is implemented by config structs with cross-field rules.
type Validator interface {
	Validate() error
}

// Load fills v from the environment according to its `env` tags, after
// applying the dotenv file. Variables already set in the process always win
// over the file. If v implements Validator, Validate runs last.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := loadEnvFile(); err != nil {
		return err
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParse, err)
	}
	if val, ok := any(&parsed).(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalid, err)
		}
	}
	*v = parsed
	return nil
}

func loadEnvFile() error {
	path := os.Getenv(EnvFileVar)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case !explicit && errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return errors.Join(ErrEnvFile, err)
	}
}
