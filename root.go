// Package asterixengine provides a pure Go implementation of an ASTERIX
// (EUROCONTROL surveillance data exchange) decoding engine.
//
// Category semantics are not compiled in: an XML or YAML catalogue,
// loaded once at startup, drives decoding of every category. See the
// catalog, bitfield, decode, and asterix packages.
package asterixengine

// Version identifies this module.
const Version = "0.1.0"
