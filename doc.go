// Package main provides the entry point for castboard.
// It starts a JSON REST service built on the Fiber framework that manages
// user accounts, podcasts with their questions, media posts and a few
// singleton site settings (font, platform, contact). Persistence is handled
// with gorm; uploaded media is stored on local disk or in S3 compatible
// object storage.
package main
