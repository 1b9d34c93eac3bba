// Package config loads the file configuration of the vfilter tool.
//
// A configuration names the stream geometry, the filter description (inline,
// from a script file or from a named preset) and the logging setup. YAML and
// TOML files are accepted:
//
//	log:
//	  level: debug
//	  format: json
//	stream:
//	  width: 640
//	  height: 480
//	  pixel_format: yuv420p
//	filter:
//	  presets:
//	    half: scale=iw/2:ih/2
//	  preset: half
package config
