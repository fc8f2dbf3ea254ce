// Package task stores, mutates, and validates the task list.
//
// The backing file is a single JSON array of task objects:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "Buy milk",
//	    "status": "todo",
//	    "createdAt": "2026-10-17T09:00:00Z",
//	    "updatedAt": "2026-10-17T09:00:00Z"
//	  }
//	]
//
// The whole file is read on every operation and rewritten on every mutation.
// There is no locking; two processes writing at once may lose an update.
//
// # Task IDs
//
// A new task gets the number of existing tasks plus one. After a delete this
// can repeat an ID that is still in use. Update and Mark act on the first
// task with the ID, Delete removes every task with the ID. The doctor check
// (see Validate) reports duplicates.
//
// # Status Values
//
//   - "todo": newly added task
//   - "in-progress": being worked on
//   - "done": complete
//
// # Timestamps
//
// Timestamps are written as RFC 3339 in UTC. Files written by older tools
// that use "dd/mm/yyyy HH:MM:SS" local time are still read.
package task
