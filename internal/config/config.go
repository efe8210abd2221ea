package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB     DBConfig
	Server ServerConfig
	Redis  RedisConfig
	Logger LoggerConfig
	Import ImportConfig
}

// DBConfig holds the file paths of the two logical stores. The quiz
// store carries imported content; the results store belongs to the
// session-bookkeeping collaborator and is only opened on its behalf.
type DBConfig struct {
	QuizPath    string `yaml:"quiz_path"`
	ResultsPath string `yaml:"results_path"`
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// ImportConfig carries the provenance defaults for import runs.
type ImportConfig struct {
	SourceName   string `yaml:"source_name"`
	RepoOwner    string `yaml:"repo_owner"`
	RepoName     string `yaml:"repo_name"`
	LicenseSPDX  string `yaml:"license_spdx"`
	PinnedCommit string `yaml:"pinned_commit"`
	RepoRoot     string `yaml:"repo_root"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("db.quiz_path", "data/quizdb.sqlite")
	viper.SetDefault("db.results_path", "data/quiz-results.sqlite")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("import.source_name", "LinkedIn Skill Assessments (Community)")
	viper.SetDefault("import.repo_owner", "Ebazhanov")
	viper.SetDefault("import.repo_name", "linkedin-skill-assessments-quizzes")
	viper.SetDefault("import.license_spdx", "CC-BY-SA-4.0")
	viper.SetDefault("import.repo_root", "vendor/quizzes")

	if err := viper.ReadInConfig(); err != nil {
		// Defaults and env vars are enough to run; only a malformed
		// file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			QuizPath:    viper.GetString("db.quiz_path"),
			ResultsPath: viper.GetString("db.results_path"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Import: ImportConfig{
			SourceName:   viper.GetString("import.source_name"),
			RepoOwner:    viper.GetString("import.repo_owner"),
			RepoName:     viper.GetString("import.repo_name"),
			LicenseSPDX:  viper.GetString("import.license_spdx"),
			PinnedCommit: viper.GetString("import.pinned_commit"),
			RepoRoot:     viper.GetString("import.repo_root"),
		},
	}

	// Override with environment variables if set
	if path := os.Getenv("QUIZ_DB_PATH"); path != "" {
		config.DB.QuizPath = path
	}
	if path := os.Getenv("RESULTS_DB_PATH"); path != "" {
		config.DB.ResultsPath = path
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if commit := os.Getenv("QUIZ_COMMIT"); commit != "" {
		config.Import.PinnedCommit = commit
	}
	if root := os.Getenv("QUIZ_REPO_ROOT"); root != "" {
		config.Import.RepoRoot = root
	}

	return config, nil
}

// RepoURL returns the upstream repository URL used for attribution.
func (c *Config) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", c.Import.RepoOwner, c.Import.RepoName)
}
