// Package upload pushes a mirrored tree to an object-storage bucket.
//
// Files are admitted in batches: up to Concurrency uploads are started, then
// the engine waits for the whole batch before admitting more. Every
// RotateEvery admitted uploads the in-flight set is drained and a new client
// is built from the ClientFactory, starting a fresh provider session.
//
// Any failed upload fails its batch, and a failed batch ends the run. Uploads
// that already completed are left in the bucket.
package upload
