package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bookmarks/internal/flagx"
	"github.com/dmitrijs2005/bookmarks/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	Argon2Time                  uint32         `json:"argon2_time"`
	Argon2MemoryKiB             uint32         `json:"argon2_memory_kib"`
	Argon2Threads               uint8          `json:"argon2_threads"`
	RevocationBackend           string         `json:"revocation_backend"`
	RevocationCacheSize         int            `json:"revocation_cache_size"`
	RedisAddr                   string         `json:"redis_addr"`
	RevocationPurgeSchedule     string         `json:"revocation_purge_schedule"`
	AuthRateLimitPerMinute      int            `json:"auth_rate_limit_per_minute"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	OTLPEndpoint                string         `json:"otlp_endpoint"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// Keys missing from the file keep their current values. An unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}
	fromJson(c, config)
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:            c.EndpointAddrHTTP,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		Argon2Time:                  c.Argon2Time,
		Argon2MemoryKiB:             c.Argon2MemoryKiB,
		Argon2Threads:               c.Argon2Threads,
		RevocationBackend:           c.RevocationBackend,
		RevocationCacheSize:         c.RevocationCacheSize,
		RedisAddr:                   c.RedisAddr,
		RevocationPurgeSchedule:     c.RevocationPurgeSchedule,
		AuthRateLimitPerMinute:      c.AuthRateLimitPerMinute,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		OTLPEndpoint:                c.OTLPEndpoint,
		LogLevel:                    c.LogLevel,
	}
}

func fromJson(j *JsonConfig, c *Config) {
	c.EndpointAddrHTTP = j.EndpointAddrHTTP
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.AccessTokenValidityDuration = j.AccessTokenValidityDuration.Duration
	c.Argon2Time = j.Argon2Time
	c.Argon2MemoryKiB = j.Argon2MemoryKiB
	c.Argon2Threads = j.Argon2Threads
	c.RevocationBackend = j.RevocationBackend
	c.RevocationCacheSize = j.RevocationCacheSize
	c.RedisAddr = j.RedisAddr
	c.RevocationPurgeSchedule = j.RevocationPurgeSchedule
	c.AuthRateLimitPerMinute = j.AuthRateLimitPerMinute
	c.S3RootUser = j.S3RootUser
	c.S3RootPassword = j.S3RootPassword
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.OTLPEndpoint = j.OTLPEndpoint
	c.LogLevel = j.LogLevel
}
