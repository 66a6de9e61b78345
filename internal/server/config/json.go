package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkazarov/uploadgate/internal/flagx"
	"github.com/dkazarov/uploadgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	Addr                  string         `json:"addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	RedisAddr             string         `json:"redis_addr"`
	SecretKey             string         `json:"secret_key"`
	TokenValidity         timex.Duration `json:"token_validity"`
	SessionTTL            timex.Duration `json:"session_ttl"`
	UploadDir             string         `json:"upload_dir"`
	BlobBackend           string         `json:"blob_backend"`
	S3AccessKey           string         `json:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	PublicBaseURL         string         `json:"public_base_url"`
	TrustForwardedHeaders bool           `json:"trust_forwarded_headers"`
	MaxUploadSize         int            `json:"max_upload_size"`
	NotifyTimeout         timex.Duration `json:"notify_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.Addr = c.Addr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.SecretKey = c.SecretKey
	config.TokenValidity = time.Duration(c.TokenValidity.Duration)
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.UploadDir = c.UploadDir
	config.BlobBackend = c.BlobBackend
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PublicBaseURL = c.PublicBaseURL
	config.TrustForwardedHeaders = c.TrustForwardedHeaders
	config.MaxUploadSize = c.MaxUploadSize
	config.NotifyTimeout = time.Duration(c.NotifyTimeout.Duration)
}
