// Package repositories implements SQLite persistence.
//
// [PreferenceRepository] is the durable key/value backend behind the preference gate. Values are
// opaque strings; upserts replace the whole value and stamp updated_at.
package repositories
