package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkazarov/uploadgate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-r string   Redis address for the session cache ("" = in-memory)
//	-s string   JWT HMAC secret key
//	-t int      bearer token validity, minutes
//	-l int      session handle TTL, minutes
//	-f string   local upload directory
//	-b string   blob backend ("local" or "s3")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-k string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-w string   public base URL for download links
//	-z bool     trust X-User-* forwarded identity headers
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-t", "-l", "-f", "-b", "-u", "-p", "-k", "-g", "-e", "-w", "-z"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for session cache")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidity.Minutes()), "token_validity (in minutes)")
	sessionTTL := fs.Int("l", int(config.SessionTTL.Minutes()), "session_ttl (in minutes)")

	fs.StringVar(&config.UploadDir, "f", config.UploadDir, "upload directory")
	fs.StringVar(&config.BlobBackend, "b", config.BlobBackend, "blob backend (local or s3)")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "k", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.PublicBaseURL, "w", config.PublicBaseURL, "public base URL")
	fs.BoolVar(&config.TrustForwardedHeaders, "z", config.TrustForwardedHeaders, "trust forwarded identity headers")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidity = time.Duration(*tokenValidity) * time.Minute
	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
