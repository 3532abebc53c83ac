package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Ledger network
	Network         string
	RPCURL          string
	WSURL           string
	AppAddress      string
	DataAddress     string
	AddressBookPath string

	// Oracles
	OracleKeysFile    string
	RegistrationPause time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL
	PostgresURI string
}

// NetworkEntry is one address-book record: where a named network's node and
// deployed contracts live
type NetworkEntry struct {
	URL         string `json:"url"`
	AppAddress  string `json:"appAddress"`
	DataAddress string `json:"dataAddress"`
}

// LoadConfig loads configuration from environment variables, falling back
// to the JSON address book for the selected network's endpoints
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		Network:         getEnv("NETWORK", "localhost"),
		RPCURL:          getEnv("RPC_URL", ""),
		WSURL:           getEnv("WS_URL", ""),
		AppAddress:      getEnv("APP_CONTRACT_ADDRESS", ""),
		DataAddress:     getEnv("DATA_CONTRACT_ADDRESS", ""),
		AddressBookPath: getEnv("ADDRESS_BOOK", "config/networks.json"),

		OracleKeysFile:    getEnv("ORACLE_KEYS_FILE", "config/oracle-keys.txt"),
		RegistrationPause: time.Duration(getEnvAsInt("REGISTRATION_PAUSE_MS", 1000)) * time.Millisecond,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightsurety"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),
	}

	if err := config.resolveNetwork(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolveNetwork fills endpoint and contract addresses from the address
// book when the environment did not override them. The websocket URL is
// derived from the RPC URL if not configured.
func (c *Config) resolveNetwork() error {
	if c.RPCURL == "" || c.AppAddress == "" {
		entry, err := lookupNetwork(c.AddressBookPath, c.Network)
		if err != nil {
			return err
		}
		if c.RPCURL == "" {
			c.RPCURL = entry.URL
		}
		if c.AppAddress == "" {
			c.AppAddress = entry.AppAddress
		}
		if c.DataAddress == "" {
			c.DataAddress = entry.DataAddress
		}
	}

	if c.WSURL == "" {
		c.WSURL = strings.Replace(c.RPCURL, "http", "ws", 1)
	}

	if c.AppAddress == "" {
		return fmt.Errorf("no app contract address for network %s", c.Network)
	}
	return nil
}

// lookupNetwork reads the address book and returns the named entry
func lookupNetwork(path, network string) (*NetworkEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read address book: %w", err)
	}

	var book map[string]NetworkEntry
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, fmt.Errorf("invalid address book %s: %w", path, err)
	}

	entry, ok := book[network]
	if !ok {
		return nil, fmt.Errorf("network %s not in address book %s", network, path)
	}
	return &entry, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
