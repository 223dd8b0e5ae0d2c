// Package descriptor reads per-plugin descriptor files (JSON, YAML or TOML),
// validates the required id and version fields, and turns a descriptor into
// the manifest entry published for that plugin.
package descriptor
