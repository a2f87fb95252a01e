package main

// General API documentation for swaggo. Run `swag init -g cmd/streamdvr/docs.go -d ./,./internal/httpapi,./pkg/types`
// to regenerate ./docs.
//
// @title           streamdvr API
// @version         1.0
// @description     Control surface of the live-stream recorder: streamers, captures, settings and recordings.
//
// @contact.name   streamdvr maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
