// Package templates embeds the prompt templates and rule texts.
package templates

import "embed"

//go:embed validation/*
var FS embed.FS
