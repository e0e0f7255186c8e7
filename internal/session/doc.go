// Package session owns the state of one repaint session: the uploaded room
// photo, the chosen paint colour, the status of the single outstanding repaint
// call, the latest result and the history of generated versions.
//
// # Status machine
//
//	Idle ──RequestRepaint──▶ Processing ──ok──▶ Success
//	  ▲                           │
//	  │                           └──err──▶ Error
//	  └────── SetSourceImage (from any state)
//
// BeginUpload moves any state to Uploading while a file is being ingested;
// SetSourceImage completes it (Idle) and FailUpload aborts it (Error).
// RestoreFromHistory moves any state to Success.
//
// # Outstanding calls
//
// RequestRepaint is refused while the status is Processing or while the photo
// or colour is missing; a refused request changes nothing and never reaches the
// Repainter. Every accepted request is stamped with a monotonically increasing
// token. Operations that replace what the call was about (a new upload, a
// history restore, Close) advance the token and cancel the call's context, so
// a late completion is recognised as stale and dropped.
//
// # History
//
// Each successful repaint prepends an immutable GeneratedVersion. Entries are
// only ever inserted at the front or deleted by id. An optional limit drops the
// oldest entries.
//
// # Manager
//
// Manager keys controllers by a random session id for the web server and
// evicts sessions that have been idle longer than a TTL.
package session
