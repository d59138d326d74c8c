// Package darwin sets the macOS desktop picture through osascript and opens
// folders with open(1). The services build on every OS; they are registered
// only on darwin.
package darwin
