// Package manager is the recording supervisor. It owns the shared state
// (status table, active captures, awaiting set) and is the only component
// allowed to touch capture process handles. It is structured into small
// files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: state enum, status entries, capture bookkeeping.
//   - adapter_iface.go: collaborator interfaces (prober, launcher, registry, settings).
//   - errors.go: rejected-command error types and helpers (IsNotFound, IsNotAwaiting, ...).
//   - reconcile.go: one reconciliation pass and the per-streamer state machine.
//   - recording.go: the shared start-recording action and its single-flight reservation.
//   - loop.go: the long-lived tick loop, Kick and Close.
//   - commands.go: control commands (add, remove, stop, trigger, config, qualities, open).
//   - status_report.go: Status/Snapshot projections.
//   - recordings.go: gallery listing of files under the output root.
//   - events.go, eventpub_memory.go: lifecycle events and the in-memory ring publisher.
//   - metrics.go: prometheus collectors for the supervisor.
//
// Locking: one mutex (Manager.mu) guards every shared table. Registry
// mutations made by commands happen while holding it, so a reconciliation
// step for a streamer is atomic with respect to commands for that streamer.
// Probing and process launch never run under the lock; inputs are copied
// out, the blocking call runs, and results are committed after re-checking
// that the streamer is still eligible.
package manager
