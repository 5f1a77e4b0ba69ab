// Package cache provides the per-session script cache.
//
// A ScriptCache maps an exact topic string to the script generated for it.
// It lives for one interactive session and is never shared between sessions.
package cache
