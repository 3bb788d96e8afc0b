// Package component defines the lifecycle contract shared by long-lived
// resources (Start, Stop, Health) and a Registry that drives it.
package component
