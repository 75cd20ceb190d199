// Package mapio reads and writes planar maps in a chunked binary container
// and keeps them in a badger-backed store.
//
// # Container
//
// Data is a sequence of atoms. Each atom starts with a four character id and
// a 32-bit little-endian length that includes the 8-byte header. A map is one
// atom whose contents are themselves atoms:
//
//	MAPi  arrangement: vertices, half-edges, face boundary cycles
//	Edg1  edge payloads, one per twin pair
//	Fac1  face payloads
//	Ver1  vertex payloads
//	Tok1  optional token table (id, name)
//
// Every index in MAPi is a position in the flat arrays written before it, so
// a map survives a round trip with identical topology. Payload atoms begin
// with a version number; readers refuse versions they do not know.
//
// # Tokens
//
// Enumerated fields such as terrain and feature types are written as the
// integers they are in memory. A reader whose token numbering differs passes
// a TokenConversionMap to ReadMap, or a Registry to Decode, which builds one
// from the stored token table by name.
//
// # Store
//
// Store keeps encoded maps under string keys in badger. An empty directory
// keeps everything in memory.
package mapio
