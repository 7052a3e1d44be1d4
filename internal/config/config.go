package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the cutover proxy. The manifest describes the reverse proxy
// workload deployed into the source cluster during cutover.
const (
	DefaultProxyManifestURL = "https://raw.githubusercontent.com/romankudravcev/reverse-proxy-http/main/reverse-proxy-http.yaml"
	DefaultProxyPort        = 80
	DefaultProxyNamespace   = "proxy"
)

// ProxyConfig configures the traffic-cutover proxy.
type ProxyConfig struct {
	ManifestURL string `yaml:"manifest_url"`
	Port        int    `yaml:"port"`
	Namespace   string `yaml:"namespace"`
}

// Config holds all configuration (CLI flags + config file).
type Config struct {
	Listen string      `yaml:"listen"`
	Proxy  ProxyConfig `yaml:"proxy"`

	// internal: path to config file (from CLI flag)
	configFile string
}

// Parse reads CLI flags, then overlays config file values.
// CLI flags take precedence over config file values.
func Parse() *Config {
	c := &Config{}
	flag.StringVar(&c.configFile, "config", "", "Path to config file (YAML)")
	flag.StringVar(&c.Listen, "listen", "", "HTTP listen address")
	flag.StringVar(&c.Proxy.ManifestURL, "proxy-manifest-url", "", "URL of the cutover proxy manifest")
	flag.IntVar(&c.Proxy.Port, "proxy-port", 0, "Forwarding port of the cutover proxy")
	flag.StringVar(&c.Proxy.Namespace, "proxy-namespace", "", "Namespace reserved for cutover proxy resources")
	flag.Parse()

	// Load config file if specified
	if c.configFile != "" {
		if err := c.loadFile(c.configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config file: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply defaults for anything still unset
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Proxy.ManifestURL == "" {
		c.Proxy.ManifestURL = DefaultProxyManifestURL
	}
	if c.Proxy.Port == 0 {
		c.Proxy.Port = DefaultProxyPort
	}
	if c.Proxy.Namespace == "" {
		c.Proxy.Namespace = DefaultProxyNamespace
	}

	return c
}

// loadFile reads a YAML config file. Values from the file are only applied
// if the corresponding CLI flag was not explicitly set.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if c.Listen == "" && file.Listen != "" {
		c.Listen = file.Listen
	}
	if c.Proxy.ManifestURL == "" && file.Proxy.ManifestURL != "" {
		c.Proxy.ManifestURL = file.Proxy.ManifestURL
	}
	if c.Proxy.Port == 0 && file.Proxy.Port != 0 {
		c.Proxy.Port = file.Proxy.Port
	}
	if c.Proxy.Namespace == "" && file.Proxy.Namespace != "" {
		c.Proxy.Namespace = file.Proxy.Namespace
	}

	return nil
}
