// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env, with optional .env file support
// via github.com/joho/godotenv.
//
// Every configurable package in this module (kvstore, apigw, sessionmgr)
// exposes a Config struct with `env:` tags that can be populated through
// config.Load:
//
//	var cfg apigw.Config
//	config.MustLoad(&cfg)
package config
