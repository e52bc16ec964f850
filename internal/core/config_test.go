package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `port: 8080
publicDir: "static"
uploadDir: "static/uploads"
maxFileSize: 2048`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 8080 {
		t.Errorf("Expected port to be 8080, got %d", config.Port)
	}
	if config.PublicDir != "static" {
		t.Errorf("Expected publicDir to be 'static', got '%s'", config.PublicDir)
	}
	if config.UploadDir != "static/uploads" {
		t.Errorf("Expected uploadDir to be 'static/uploads', got '%s'", config.UploadDir)
	}
	if config.MaxFileSize != 2048 {
		t.Errorf("Expected maxFileSize to be 2048, got %d", config.MaxFileSize)
	}

	// keys absent from the file keep their defaults
	if config.FieldName != DefaultFieldName {
		t.Errorf("Expected fieldName to default to '%s', got '%s'", DefaultFieldName, config.FieldName)
	}
	if config.MaxFieldSize != DefaultMaxFieldSize {
		t.Errorf("Expected maxFieldSize to default to %d, got %d", DefaultMaxFieldSize, config.MaxFieldSize)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	nonExistentPath := "/path/that/does/not/exist/config.yaml"

	config, err := LoadConfig(nonExistentPath)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestLoadConfigOrDefault_FileNotFound(t *testing.T) {
	config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigOrDefault failed: %v", err)
	}
	if config.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", config.Port)
	}
	if config.UploadDir != "public/images" {
		t.Errorf("Expected default uploadDir 'public/images', got '%s'", config.UploadDir)
	}
	if config.FieldName != "image" {
		t.Errorf("Expected default fieldName 'image', got '%s'", config.FieldName)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port out of range", content: "port: 70000"},
		{name: "negative file size", content: "maxFileSize: -1"},
		{name: "empty field name", content: `fieldName: ""`},
		{name: "malformed yaml", content: "port: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Expected an error, got nil")
			}
		})
	}
}

func TestLoadConfigOrDefault_InvalidFileIsNotIgnored(t *testing.T) {
	if _, err := LoadConfigOrDefault(writeConfig(t, "port: 0")); err == nil {
		t.Fatal("Expected an error for an invalid config file")
	}
}
