package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Package config provides configuration management for the OurBooth render service.

// Config struct to hold all configuration data
type Config struct {
	Addr            string `json:"addr"`
	EmojiCDNBaseURL string `json:"emoji_cdn_base_url"`
	StickerBaseURL  string `json:"sticker_base_url"`
	FetchTimeoutSec int    `json:"fetch_timeout_sec"`
	FetchPerSecond  int    `json:"fetch_per_second"`
	SmartCrop       bool   `json:"smart_crop"`
	FaceCrop        bool   `json:"face_crop"`
	FaceModelPath   string `json:"face_model_path"`
	EncodingQuality int    `json:"encoding_quality"`
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
		// Load config from file
		if err := instance.loadFromFile(GetFilename()); err != nil {
			// Handle error, e.g., log, use defaults
			fmt.Println("Error loading config:", err)
		}
		instance.applyDefaults()
	})
	return instance
}

// GetFilename returns the path to the user's config file
func GetFilename() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName), "config.json")
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// loadFromFile loads configuration from the specified file
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err // Return the error for handling in GetConfig()
	}

	err = json.Unmarshal(data, c)
	if err != nil {
		return err
	}

	return nil
}

// applyDefaults fills in defaults for any unset field.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultServerAddr
	}
	if c.EmojiCDNBaseURL == "" {
		c.EmojiCDNBaseURL = DefaultEmojiCDNBaseURL
	}
	if c.StickerBaseURL == "" {
		c.StickerBaseURL = DefaultStickerBaseURL
	}
	if c.FetchTimeoutSec <= 0 {
		c.FetchTimeoutSec = DefaultFetchTimeoutSec
	}
	if c.FetchPerSecond <= 0 {
		c.FetchPerSecond = DefaultFetchPerSecond
	}
	if c.EncodingQuality <= 0 || c.EncodingQuality > 100 {
		c.EncodingQuality = DefaultEncodingQuality
	}
}

// Save saves the current configuration to the user's config file
func (c *Config) Save() {
	cfgFile := GetFilename()
	err := os.MkdirAll(filepath.Dir(cfgFile), 0700) // Ensure the directory exists
	if err != nil {
		log.Fatalf("Error creating config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ") // Use indentation for readability
	if err != nil {
		log.Fatalf("Error encoding config data: %v", err)
	}

	err = os.WriteFile(cfgFile, data, 0644) // Use appropriate file permissions
	if err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}
}
