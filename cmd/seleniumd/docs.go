package main

// General API documentation for swaggo. Generate with `swag init -g cmd/seleniumd/docs.go`.
//
// @title           seleniumd API
// @version         1.0
// @description     HTTP API to start, stop and inspect supervised Selenium standalone servers.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
