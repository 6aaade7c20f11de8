// Package preferences implements opt-in persistence of user preferences.
//
// A [Gate] wraps a durable key/value [Backend] behind a single enabled flag. While the flag is
// off nothing reaches the backend and every read reports absent, even when stale bytes remain in
// storage. Turning the flag off erases every managed record except the flag itself.
//
// Records are typed: a [Record] pairs a logical name with a [Codec], and the generic [Write] and
// [Read] functions keep writer and reader of a name agreeing on its type.
//
// A [Binding] sits between the engines and the gate and throttles writes with a token bucket,
// keeping the latest value of every record that arrives over the limit until it can be flushed.
package preferences
