package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrEmptyJWTSecret error if no token secret was supplied.
	ErrEmptyJWTSecret = errors.New("config auth.jwtsecret can not be empty")

	// ErrUnknownGormEngine error if db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("config db.gormengine must be postgres, mysql or sqlite")

	// ErrUnknownUploadBackend error if upload.backend is not supported.
	ErrUnknownUploadBackend = errors.New("config upload.backend must be disk or s3")

	// ErrIncompleteS3 error if the s3 backend is selected without endpoint, keys or bucket.
	ErrIncompleteS3 = errors.New("config upload.s3 needs endpoint, accesskey, secretkey and bucket")

	// ErrNilConfig is returned when a component is started without configuration.
	ErrNilConfig = errors.New("config is nil")
)
