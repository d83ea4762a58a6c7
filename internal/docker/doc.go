// Package docker runs task steps inside throwaway containers and cleans up
// after them.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Labels that mark runner-owned containers
//   - The step lifecycle: pull if missing, create, start, stream logs,
//     wait, remove
//   - Listing and pruning containers left behind by interrupted runs
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
