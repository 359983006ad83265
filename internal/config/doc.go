// Package config loads inkwell settings from TOML.
//
// A settings file has four sections:
//
//	[layout]
//	width = 640
//	height = 480
//	scrollbar_width = 16
//	single_line = false
//
//	[style]
//	font = "Go"
//	bold = false
//	italic = false
//	size = 13
//	foreground = "#000000"
//	background = "#ffffff"
//
//	[history]
//	limit = 1000
//
//	[logger]
//	level = "info"
//	file = ""
//
// A missing file yields the defaults. Unknown keys are logged and ignored,
// and out-of-range values are reset to their defaults. Environment
// variables prefixed with INKWELL_ override file values.
package config
