package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// APIKeyEnv is the environment variable holding the OpenWeatherMap credential.
const APIKeyEnv = "OpenWeatherMap_API"

const defaultAPIURL = "https://api.openweathermap.org/data/2.5/weather"

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once
var logLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)
var logOutput = &lockedWriter{w: os.Stderr}

// lockedWriter lets the log destination be swapped after the logger is built.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// ConfigError reports a required setting that is missing. It is the only
// error that stops the program.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("weather API key must be set (keyname: %s)", e.Key)
}

// OpenWeatherMap is the explicit configuration handed to the weather client.
type OpenWeatherMap struct {
	APIURL string
	APIKey string
}

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		viper.SetDefault("openweathermap.api_url", defaultAPIURL)
		viper.SetDefault("log.level", "warn")
		viper.SetDefault("output.no_color", false)

		root, err := getProjectRoot()
		if err != nil {
			// Installed binaries run outside the source tree.
			GetLogger().Debugw("Project root not found, using working directory", "error", err)
			root = "."
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Debugw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
		}

		err = viper.MergeInConfig()
		if err != nil {
			GetLogger().Debugw("Error merging config file", "error", err)
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

// GetOpenWeatherMapAPIKey reads the credential from the environment, loading
// .env first when present. Variables already set win over .env entries.
func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// LoadOpenWeatherMap assembles the client configuration. A missing or blank
// API key yields a *ConfigError.
func LoadOpenWeatherMap() (OpenWeatherMap, error) {
	key := GetOpenWeatherMapAPIKey()
	if key == "" {
		return OpenWeatherMap{}, &ConfigError{Key: APIKeyEnv}
	}
	return OpenWeatherMap{
		APIURL: GetOpenWeatherApiUrl(),
		APIKey: key,
	}, nil
}

func GetLogLevel() string {
	initConfig()
	return viper.GetString("log.level")
}

func IsColorDisabled() bool {
	initConfig()
	return viper.GetBool("output.no_color")
}

// BindFlags registers the command-line flags on fs and binds them to their
// viper keys, so explicit flags override config.yaml.
func BindFlags(fs *pflag.FlagSet) error {
	fs.String("log-level", "warn", "Log level: debug, info, warn or error.")
	fs.Bool("no-color", false, "Disable colored output.")

	if err := viper.BindPFlag("log.level", fs.Lookup("log-level")); err != nil {
		return err
	}
	return viper.BindPFlag("output.no_color", fs.Lookup("no-color"))
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = logLevel
		// Log lines share the terminal with the prompt.
		cfg.DisableStacktrace = true
		l, err := cfg.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core {
			return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), zapcore.AddSync(logOutput), cfg.Level)
		}))
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// SetLogOutput redirects the shared logger and returns the previous writer.
func SetLogOutput(w io.Writer) io.Writer {
	logOutput.mu.Lock()
	defer logOutput.mu.Unlock()
	prev := logOutput.w
	logOutput.w = w
	return prev
}

// SetLogLevel changes the level of the shared logger. Unknown names are
// rejected and leave the level untouched.
func SetLogLevel(level string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logLevel.SetLevel(l)
	return nil
}
