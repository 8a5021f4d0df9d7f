// Package server registers the image tools with an MCP server and runs it
// over stdio. Tool argument structs mirror the wire-level parameter schemas;
// everything past argument decoding is delegated to the generate pipeline.
package server
