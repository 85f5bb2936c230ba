// Package config holds the settings of an llms.txt generation run and
// knows how to assemble them from defaults, the optional YAML config
// file, a .env file and the process environment.
package config
