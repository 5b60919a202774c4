package config

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	Rows           int           // Default number of maze rows
	Cols           int           // Default number of maze columns
	MaxDimension   int           // Upper bound accepted for rows and columns
	DelayUnit      time.Duration // Delay added per speed unit between steps
	GenAlgorithm   string        // Default generation algorithm name
	GenMode        string        // Default generation wall mode
	SolveAlgorithm string        // Default solve algorithm name
	InverseColors  bool          // Draw the console maze in reverse video
	LogLevel       string        // debug, info, warn or error
	LogFormat      string        // text or json
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		Rows:           getEnvAsIntWithDefault("MAZE_ROWS", 20),
		Cols:           getEnvAsIntWithDefault("MAZE_COLS", 20),
		MaxDimension:   getEnvAsIntWithDefault("MAZE_MAX_DIMENSION", 200),
		DelayUnit:      time.Duration(getEnvAsIntWithDefault("MAZE_DELAY_UNIT_MS", 2)) * time.Millisecond,
		GenAlgorithm:   getEnvWithDefault("MAZE_GEN_ALGORITHM", "backtracker"),
		GenMode:        getEnvWithDefault("MAZE_GEN_MODE", "remove"),
		SolveAlgorithm: getEnvWithDefault("MAZE_SOLVE_ALGORITHM", "astar-manhattan"),
		InverseColors:  getEnvAsBoolWithDefault("MAZE_INVERSE_COLORS", false),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvWithDefault("LOG_FORMAT", "text"),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault parses an integer environment variable, logging a fatal error on malformed input.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}

// NewLogger builds a slog logger writing to w. format is "text" or "json".
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}
