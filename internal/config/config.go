// Package config loads server settings from defaults, an optional HCL file
// and environment variables, in that order of precedence.
//
// A config file looks like:
//
//	kroki_server    = "https://kroki.example.com"
//	plantuml_server = "https://www.plantuml.com/plantuml"
//	output_dir      = "diagrams"
//	log_level       = "debug"
//
//	local_plantuml {
//	  enabled   = true
//	  java_path = "/usr/lib/jvm/java-21/bin/java"
//	  jar_path  = "/opt/plantuml/plantuml.jar"
//	}
//
//	diagram "timing" {
//	  backend     = "plantuml"
//	  description = "UML timing diagram"
//	  formats     = ["svg", "png"]
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by Load.
const (
	EnvConfig         = "UML_MCP_CONFIG"
	EnvKrokiServer    = "KROKI_SERVER"
	EnvPlantUMLServer = "PLANTUML_SERVER"
	EnvOutputDir      = "UML_MCP_OUTPUT_DIR"
	EnvLogLevel       = "UML_MCP_LOG_LEVEL"
	EnvLogDir         = "UML_MCP_LOG_DIR"
	EnvUseLocal       = "USE_LOCAL_PLANTUML"
	EnvJavaPath       = "JAVA_PATH"
)

// Defaults.
const (
	DefaultKrokiServer    = "https://kroki.io"
	DefaultPlantUMLServer = "https://www.plantuml.com/plantuml"
	DefaultOutputDir      = "output"
	DefaultLogLevel       = "info"
)

// Config holds all server settings.
type Config struct {
	KrokiServer    string `json:"kroki_server"`
	PlantUMLServer string `json:"plantuml_server"`
	OutputDir      string `json:"output_dir"`
	LogLevel       string `json:"log_level"`
	LogDir         string `json:"log_dir,omitempty"`

	LocalPlantUML LocalPlantUML `json:"local_plantuml"`

	// Diagrams adds diagram types or overrides built-in ones by name.
	Diagrams []Diagram `json:"diagrams,omitempty"`

	// Source is the config file that was read, if any.
	Source string `json:"source,omitempty"`
}

// LocalPlantUML controls rendering with a local Java runtime.
type LocalPlantUML struct {
	Enabled  bool   `json:"enabled"`
	JavaPath string `json:"java_path,omitempty"`
	JarPath  string `json:"jar_path,omitempty"`
}

// Diagram is one diagram "<name>" block.
type Diagram struct {
	Name        string   `json:"name"`
	Backend     string   `json:"backend"`
	Description string   `json:"description,omitempty"`
	Formats     []string `json:"formats,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		KrokiServer:    DefaultKrokiServer,
		PlantUMLServer: DefaultPlantUMLServer,
		OutputDir:      DefaultOutputDir,
		LogLevel:       DefaultLogLevel,
	}
}

// Load builds the configuration. path may be empty, in which case
// UML_MCP_CONFIG is consulted; with neither set no file is read. getenv
// defaults to os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()

	if path == "" {
		path = getenv(EnvConfig)
	}
	if path != "" {
		if err := parseFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Source = path
	}

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.KrokiServer, EnvKrokiServer)
	set(&cfg.PlantUMLServer, EnvPlantUMLServer)
	set(&cfg.OutputDir, EnvOutputDir)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.LogDir, EnvLogDir)
	set(&cfg.LocalPlantUML.JavaPath, EnvJavaPath)

	if v := strings.TrimSpace(getenv(EnvUseLocal)); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvUseLocal, v, err)
		}
		cfg.LocalPlantUML.Enabled = enabled
	}
	return nil
}
