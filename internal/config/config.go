package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultEnvFile = ".env"

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	StubAPIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	API
	Storage
	StubAPI
}

// New loads the given .env files (or ./.env when none are given) into the
// process environment and returns a Config reading from it. Variables already
// set in the environment win over the files.
func New(envFiles ...string) Config {
	loadEnvFiles(envFiles)
	return mainConfig{}
}

func loadEnvFiles(envFiles []string) {
	if len(envFiles) == 0 {
		envFiles = []string{defaultEnvFile}
	}

	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return
	}

	if err := godotenv.Load(existing...); err != nil {
		log.Err(err).Strs("files", existing).Msg("Failed to load env files")
	}
}
