package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           sitegen API
// @version         1.0
// @description     Generates and edits single-file websites with a local language model.
//
// @contact.name   sitegen maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
