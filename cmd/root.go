package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/session"
)

const (
	app       = "netmatch"
	envPrefix = "NETMATCH"

	defaultPerPage = 10
)

type Config struct {
	APIURL    string                `mapstructure:"api-url"`
	UserAgent string                `mapstructure:"user-agent"`
	Timeout   time.Duration         `mapstructure:"timeout"`
	PerPage   int                   `mapstructure:"per-page"`
	Session   *SessionConfig        `mapstructure:"session"`
	Search    *backend.SearchParams `mapstructure:"search"`
	AI        *AIConfig             `mapstructure:"ai"`
}

type SessionConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Sender   string        `mapstructure:"sender"`
	Tone     string        `mapstructure:"tone"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "netmatch finds open positions at companies where your LinkedIn network already works",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is netmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "backend base URL (default "+backend.DefaultAPIURL+")")
	rootCmd.PersistentFlags().String("session-backend", "", "where the session token is kept: file, sqlite or memory")
	rootCmd.PersistentFlags().Bool("no-persist", false, "keep the session token in memory for this run only")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("session.backend", rootCmd.PersistentFlags().Lookup("session-backend"))
	viper.BindPFlag("no-persist", rootCmd.PersistentFlags().Lookup("no-persist"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api-url", backend.DefaultAPIURL)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("per-page", defaultPerPage)
	v.SetDefault("session.backend", session.BackendFile)
	v.SetDefault("session.path", "")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "")
	v.SetDefault("ai.gemini.max-log-length", 200)
}

// bindEnv maps keys like session.backend to NETMATCH_SESSION_BACKEND.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	bindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was asked for explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Session == nil {
		config.Session = &SessionConfig{}
	}
	if viper.GetBool("no-persist") {
		config.Session.Backend = session.BackendMemory
	}
	if config.Search == nil {
		config.Search = &backend.SearchParams{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.PerPage < 1 {
		config.PerPage = defaultPerPage
	}

	return config, nil
}
