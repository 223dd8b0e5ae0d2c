// Package release drives a plugin release: it synchronizes the manifest with
// the plugin descriptors, resolves a free version tag, commits, tags and
// pushes.
//
// The flow is linear and stops at the first error. Nothing is rolled back:
// a failed push leaves the local commit and tag in place.
package release
