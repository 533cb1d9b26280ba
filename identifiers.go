package hnsw

// Id is a node identifier. It is always equal to the position of the
// corresponding item in the caller-provided sequence at build time, and
// ids are dense: after construction they cover exactly 0..N-1.
type Id = int
