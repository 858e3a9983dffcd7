package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга .yaml файла: %w", err)
	}

	return &cfg, nil
}

// ParseTTL разбирает строку длительности из конфигурации ("15m", "720h" и т.д.)
func ParseTTL(value string) (time.Duration, error) {
	ttl, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("ошибка парсинга длительности %q: %w", value, err)
	}
	return ttl, nil
}
