// Package config holds the environment-driven configuration structs shared
// by the cmd entrypoints. Fields carry cleanenv env tags; duration-valued
// settings accept both ISO 8601 ("PT3M") and Go ("3m") formats.
package config
