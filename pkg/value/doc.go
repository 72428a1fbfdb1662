// Package value defines the decoded document model shared by graphize's
// decoder and tree builder.
//
// A [Value] is a closed tagged variant. Every value has exactly one [Kind]:
//
//	KindNull      null / ~
//	KindBool      true, false
//	KindNumber    numeric literal, kept as written (1.50 stays 1.50)
//	KindString    text
//	KindSequence  ordered list of values
//	KindMapping   ordered list of (key, value) members, keys unique
//
// The zero Value is Null. Values are immutable once constructed: accessors
// that expose slices return copies, and the index accessors [Value.Item] and
// [Value.Member] give zero-copy read access for walkers.
//
// # Serialization
//
// [Value.MarshalJSON] writes the value back as JSON with mapping order
// preserved. This is the form handed to rendering collaborators when a user
// copies a node or a whole tree.
//
// # Concurrency
//
// Values never change after construction and are safe for concurrent reads.
package value
