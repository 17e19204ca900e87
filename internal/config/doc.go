// Package config provides environment-based configuration.
//
// Loads from environment variables (an optional .env file is applied by main
// via godotenv). A missing or placeholder BOT_TOKEN disables the chat
// component without affecting the page server.
package config
