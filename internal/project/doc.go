// Package project manages the on-disk descriptor of a rompack project.
//
// A project decomposes one ROM into named, per-module resource files. The
// descriptor file records the ROM type, the descriptor format version, the
// module configuration (which editing modules are enabled, disabled, or
// supplied by the project itself), and the resource registry mapping
// (module, resource) pairs to relative file paths.
//
// Projects are single-threaded: nothing in this package locks, and a single
// Project must not be mutated concurrently without external
// synchronization. The shared module registry handles its own one-time
// initialization.
package project
