package config

import "fmt"

// MemcacheConfig of the server holding the ingestion lease
type MemcacheConfig struct {
	Host     string `mapstructure:"host"`
	Port     uint16 `mapstructure:"port"`
	NumConns int    `mapstructure:"num_conns"`
}

// Enabled is false when no host is configured, the pipeline then runs without a lease
func (c MemcacheConfig) Enabled() bool {
	return c.Host != ""
}

// Addr ...
func (c MemcacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
