// Package queue implements the background upload pipeline for curriculum content.
//
// # Data Model
//
// A [Task] is one queued upload: its payload, destination in the hierarchy,
// category, status (pending → uploading → completed | error), and progress.
// The [Store] owns the ordered task collection and is mutated only through
// its command methods (Enqueue, Patch, Remove, ClearCompleted); consumers
// observe snapshots. Queue state is process-lifetime only.
//
// # Scheduling
//
// The [Processor] guarantees single-flight execution: at most one task is
// ever uploading, and pending tasks start in strict enqueue order. Every
// store change wakes the processor; a drain loop guarded by a busy flag
// selects the oldest pending task, dispatches it to the strategy matching
// its category, and applies terminal status. Strategy failures (and panics)
// are absorbed — one failed task never wedges the queue or affects tasks
// around it. Retry means enqueueing a fresh task.
//
// # Strategies
//
//  1. [LocalStrategy] : One multipart request to the CMS upload endpoint for
//     server-stored categories. Transfer bytes map onto 0–95; the jump to
//     100 happens on settlement.
//  2. [CloudStrategy] : Three sequential phases for provider-hosted media —
//     signature from the CMS (progress stays 0), direct multipart upload to
//     the storage provider (0–90), then metadata save back at the CMS (95).
//     A metadata-save failure after a successful transfer leaves an orphaned
//     provider object; no compensating deletion is attempted.
//
// # Cancellation
//
// Removing a pending task is instantaneous cancellation. There is no
// cancellation of an in-flight transfer: Store.Remove refuses uploading
// tasks, and the context threaded through the phases only serves process
// shutdown.
//
// Terminal outcomes are surfaced through the [Notifier] interface, and
// successful uploads additionally fire content-changed hooks for external
// consumers such as the local upload-history catalog.
package queue
