package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Port == "" {
		problems = append(problems, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			problems = append(problems, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.BaseURL == "" {
		problems = append(problems, "base URL is required")
	}
	if c.DatabasePath == "" {
		problems = append(problems, "database path is required")
	}

	if c.MaxOpenConns < 1 {
		problems = append(problems, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		problems = append(problems, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		problems = append(problems, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		problems = append(problems, "connection max lifetime must be at least 1 second")
	}

	if c.SupplierBatchSize < 1 {
		problems = append(problems, "supplier batch size must be at least 1")
	}
	if c.InventoryCacheTTL < time.Second {
		problems = append(problems, "inventory cache TTL must be at least 1 second")
	}

	if c.RateLimit <= 0 {
		problems = append(problems, "rate limit must be positive")
	}
	if c.RateBurst < 1 {
		problems = append(problems, "rate burst must be at least 1")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		upper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if upper == level {
				valid = true
				break
			}
		}
		if !valid {
			problems = append(problems, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
