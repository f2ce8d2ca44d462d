// Package download handles fetching a single object into the local filesystem.
//
// Objects are streamed through a pooled copy buffer into a file created on
// the collector's filesystem abstraction, with optional progress reporting
// and content-type detection.
package download
