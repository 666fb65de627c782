// Package tpscube is the public facade over the speedcubing companion
// library: cube state and solving (internal/cube, internal/solver,
// internal/scramble), an event-sourced, sync-capable solve history
// (internal/history, internal/syncproto, internal/storagequeue), and
// live Bluetooth smart-cube ingestion (internal/ble).
//
// App wires these together for a standalone CLI or embedding program;
// each internal package remains independently usable for callers that
// only need one piece (e.g. just the solver, or just the cube model).
package tpscube
