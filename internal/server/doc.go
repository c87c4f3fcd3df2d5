// Package server implements the MCP (Model Context Protocol) server for wallpaper rendering.
//
// This package provides a JSON-RPC 2.0 server that exposes the wallpaper
// compositor to MCP-compatible clients, so a media-player hook or an assistant
// can turn the current album cover into a desktop background.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - wallpaper_render: Compose a wallpaper from a cover and write it to disk
//   - wallpaper_gradient: Write a plain two-color gradient
//   - wallpaper_palette: Most and least frequent colors of an image
//   - wallpaper_modes: List render modes
//   - image_dimensions: Get width and height
//
// Arguments a client leaves out (size, mode, background, output path) are
// taken from the server's configuration.
//
// # Caching
//
// Predefined backgrounds are decoded once and kept in memory, and radial
// distance fields are shared between renders of the same canvas size. Both
// caches live for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
