package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jo-hoe/imageupload/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 3000
	DefaultPublicDir    = "public"
	DefaultUploadDir    = "public/images"
	DefaultFieldName    = "image"
	DefaultIndexPage    = "index.html"
	DefaultMaxFileSize  = 10 << 20
	DefaultMaxFieldSize = 1 << 20
)

type ServiceConfig struct {
	Port         int    `yaml:"port" validate:"min=1,max=65535"`
	PublicDir    string `yaml:"publicDir" validate:"required"`
	UploadDir    string `yaml:"uploadDir" validate:"required"`
	FieldName    string `yaml:"fieldName" validate:"required"`
	IndexPage    string `yaml:"indexPage" validate:"required"`
	MaxFileSize  int64  `yaml:"maxFileSize" validate:"min=0"`
	MaxFieldSize int64  `yaml:"maxFieldSize" validate:"min=0"`
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:         DefaultPort,
		PublicDir:    DefaultPublicDir,
		UploadDir:    DefaultUploadDir,
		FieldName:    DefaultFieldName,
		IndexPage:    DefaultIndexPage,
		MaxFileSize:  DefaultMaxFileSize,
		MaxFieldSize: DefaultMaxFieldSize,
	}
}

// LoadConfig loads configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML on top of the defaults
	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := common.ValidateStruct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to DefaultConfig
// when the file does not exist.
func LoadConfigOrDefault(configPath string) (*ServiceConfig, error) {
	config, err := LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return config, err
}
