// Package kernel contains the shared value objects of the dispatch domain:
// identifiers, geographic points and postal addresses. All types here are
// immutable, validated at construction and safe for concurrent use.
package kernel
