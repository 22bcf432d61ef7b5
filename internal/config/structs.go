package config

import (
	"time"

	"github.com/castboard/castboard/internal/logger"
)

// Auth holds the token gate settings.
type Auth struct {
	JWTSecret string        // shared HMAC secret, must be supplied externally
	TokenTTL  time.Duration // lifetime of issued tokens, 0 disables expiry
	Header    string        // request header carrying the raw token
}

// Seed describes an optional admin account created on first start.
type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Upload    Upload
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool     // disable recover middleware
	Port           int      // listening port for the webserver
	ShutDownTime   int      // wait time for shutdown
	URL            string   // base url for the webserver
	BodyLimit      int      // max request body size in bytes
	CORSOrigins    []string // allowed origins, empty means any
}

// Upload configures where uploaded media ends up.
type Upload struct {
	Backend       string        // disk or s3
	Timeout       time.Duration // per request upload timeout
	MaxImageBytes int64         // per file ceiling for images
	MaxMediaBytes int64         // per file ceiling for video and audio
	Disk          DiskUpload
	S3            S3Upload
}

// DiskUpload configures the local disk backend.
type DiskUpload struct {
	Dir       string
	URLPrefix string
}

// S3Upload configures the S3 compatible object storage backend.
type S3Upload struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string // base url used to build object references
}

const (
	// UploadBackendDisk stores uploads below Upload.Disk.Dir.
	UploadBackendDisk = "disk"
	// UploadBackendS3 stores uploads in an S3 compatible bucket.
	UploadBackendS3 = "s3"
)
