/*******************************************************************************
* Copyright (C) 2026 the Titan-AAS Authors
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

// Package common provides configuration management, database
// initialization, identifier encoding, canonicalization, pagination and
// HTTP endpoint utilities shared by all Titan-AAS services. It supports
// YAML configuration files with environment variable overrides, CORS
// setup, health endpoints, and PostgreSQL connections with pooling.
package common

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	jsoniter "github.com/json-iterator/go"
)

// Config is the complete configuration of a Titan-AAS process.
type Config struct {
	Server     ServerConfig   `mapstructure:"server" json:"server"`
	Postgres   PostgresConfig `mapstructure:"postgres" json:"postgres"`
	Redis      RedisConfig    `mapstructure:"redis" json:"redis"`
	Mongo      MongoConfig    `mapstructure:"mongo" json:"mongo"`
	Blob       BlobConfig     `mapstructure:"blob" json:"blob"`
	Events     EventsConfig   `mapstructure:"events" json:"events"`
	Leader     LeaderConfig   `mapstructure:"leader" json:"leader"`
	CorsConfig CorsConfig     `mapstructure:"cors" json:"cors"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	Port        int    `mapstructure:"port" json:"port"`
	ContextPath string `mapstructure:"contextPath" json:"contextPath"`
}

// PostgresConfig contains the authoritative store connection parameters
// including pooling settings.
type PostgresConfig struct {
	Host                   string `mapstructure:"host" json:"host"`
	Port                   int    `mapstructure:"port" json:"port"`
	User                   string `mapstructure:"user" json:"user"`
	Password               string `mapstructure:"password" json:"password"`
	DBName                 string `mapstructure:"dbname" json:"dbname"`
	MaxOpenConnections     int    `mapstructure:"maxOpenConnections" json:"maxOpenConnections"`
	MaxIdleConnections     int    `mapstructure:"maxIdleConnections" json:"maxIdleConnections"`
	ConnMaxLifetimeMinutes int    `mapstructure:"connMaxLifetimeMinutes" json:"connMaxLifetimeMinutes"`
}

// DSN renders the lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.DBName)
}

// RedisConfig contains the broker connection parameters. The broker
// carries the hot byte cache, the cross-replica invalidation channel and
// the leader leases.
type RedisConfig struct {
	Addr            string `mapstructure:"addr" json:"addr"`
	Password        string `mapstructure:"password" json:"password"`
	DB              int    `mapstructure:"db" json:"db"`
	CacheTTLSeconds int    `mapstructure:"cacheTTLSeconds" json:"cacheTTLSeconds"`
}

// MongoConfig contains the audit sink connection parameters.
type MongoConfig struct {
	URI        string `mapstructure:"uri" json:"uri"`
	Database   string `mapstructure:"database" json:"database"`
	Collection string `mapstructure:"collection" json:"collection"`
}

// BlobConfig controls File/Blob value externalization to object storage.
type BlobConfig struct {
	Bucket         string `mapstructure:"bucket" json:"bucket"`
	Region         string `mapstructure:"region" json:"region"`
	Endpoint       string `mapstructure:"endpoint" json:"endpoint"`
	ThresholdBytes int    `mapstructure:"thresholdBytes" json:"thresholdBytes"`
}

// EventsConfig controls the in-process event bus and micro-batch writer.
type EventsConfig struct {
	BufferSize              int `mapstructure:"bufferSize" json:"bufferSize"`
	Partitions              int `mapstructure:"partitions" json:"partitions"`
	SubscriberTimeoutMillis int `mapstructure:"subscriberTimeoutMillis" json:"subscriberTimeoutMillis"`
	BatchSize               int `mapstructure:"batchSize" json:"batchSize"`
	FlushIntervalMillis     int `mapstructure:"flushIntervalMillis" json:"flushIntervalMillis"`
}

// LeaderConfig controls lease-based singleton worker coordination.
type LeaderConfig struct {
	LeaseSeconds int `mapstructure:"leaseSeconds" json:"leaseSeconds"`
}

// CorsConfig contains the Cross-Origin Resource Sharing policy.
type CorsConfig struct {
	AllowedOrigins   []string `mapstructure:"allowedOrigins" json:"allowedOrigins"`
	AllowedMethods   []string `mapstructure:"allowedMethods" json:"allowedMethods"`
	AllowedHeaders   []string `mapstructure:"allowedHeaders" json:"allowedHeaders"`
	AllowCredentials bool     `mapstructure:"allowCredentials" json:"allowCredentials"`
}

// LoadConfig loads the configuration from a YAML file and environment
// variables. Precedence: environment variables, then the file, then
// defaults. Environment variables use underscore notation, e.g.
// SERVER_PORT for server.port.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		log.Printf("📁 Loading config from file: %s", configPath)
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Println("📁 No config file provided, loading from environment variables only")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	log.Println("✅ Configuration loaded successfully")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5004)
	v.SetDefault("server.contextPath", "")

	v.SetDefault("postgres.host", "db")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "admin")
	v.SetDefault("postgres.password", "admin123")
	v.SetDefault("postgres.dbname", "titanTestDB")
	v.SetDefault("postgres.maxOpenConnections", 50)
	v.SetDefault("postgres.maxIdleConnections", 50)
	v.SetDefault("postgres.connMaxLifetimeMinutes", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cacheTTLSeconds", 3600)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "titan")
	v.SetDefault("mongo.collection", "audit")

	v.SetDefault("blob.bucket", "titan-blobs")
	v.SetDefault("blob.region", "eu-central-1")
	v.SetDefault("blob.endpoint", "")
	v.SetDefault("blob.thresholdBytes", 262144)

	v.SetDefault("events.bufferSize", 10000)
	v.SetDefault("events.partitions", 8)
	v.SetDefault("events.subscriberTimeoutMillis", 5000)
	v.SetDefault("events.batchSize", 1000)
	v.SetDefault("events.flushIntervalMillis", 500)

	v.SetDefault("leader.leaseSeconds", 30)

	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"*"})
	v.SetDefault("cors.allowCredentials", true)
}

// PrintConfiguration prints the current configuration with credentials
// redacted. Useful during startup to verify what the process runs with.
func PrintConfiguration(cfg *Config) {
	cfgCopy := *cfg
	if cfg.Postgres.Host != "" {
		cfgCopy.Postgres.Host = "****"
		cfgCopy.Postgres.User = "****"
		cfgCopy.Postgres.Password = "****"
	}
	if cfg.Redis.Password != "" {
		cfgCopy.Redis.Password = "****"
	}
	cfgCopy.Mongo.URI = "****"

	configJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfgCopy, "", "  ")
	if err != nil {
		log.Printf("Unable to marshal configuration to JSON: %v", err)
		return
	}
	log.Printf("📜 Loaded configuration:\n%s", string(configJSON))
}

// AddCors configures the CORS middleware on the router from the policy
// in the configuration.
func AddCors(r *chi.Mux, config *Config) {
	c := cors.New(cors.Options{
		AllowedOrigins:   config.CorsConfig.AllowedOrigins,
		AllowedMethods:   config.CorsConfig.AllowedMethods,
		AllowedHeaders:   config.CorsConfig.AllowedHeaders,
		AllowCredentials: config.CorsConfig.AllowCredentials,
	})
	r.Use(c.Handler)
}
