// Package probe asks the stream-resolution tool (streamlink) whether a
// streamer is live and which qualities it offers.
//
// Probe is fail-closed: any failure of the tool, malformed output or an
// explicit error marker reads as "not live". ListQualities is the on-demand
// variant used by the UI and distinguishes offline from tool failures.
package probe
