// Package desktop provides the Linux and Windows platform implementations.
package desktop
