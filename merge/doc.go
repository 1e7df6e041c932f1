// Package merge implements the strategy-aware recursive merge that layers one
// configuration fragment onto an accumulator tree.
//
// A fragment node declares how it merges via the reserved marker: a mapping
// carries the "__" key, a sequence carries a leading single-entry mapping
// {__: <strategy>}. Three strategies exist:
//
//   - overwrite: the incoming node replaces the existing value wholesale
//   - merge-last: incoming wins on conflicts (the default)
//   - merge-first: the existing value wins on conflicts
//
// Strategies are resolved independently at every tree position; a nested
// mapping's marker is only honored when that position is merged, never
// applied eagerly from above. Mappings merge key-by-key, sequences are
// concatenated wholesale (merge-first prepends the incoming items), scalars
// are picked by strategy. A kind mismatch between the existing and incoming
// value at the same position always replaces, regardless of the declared
// strategy.
//
// Merge is pure: neither argument is modified and the result is a fresh tree.
// Marker keys and marker elements never survive into the result; an
// unrecognized marker value anywhere in the incoming tree fails the whole
// merge.
package merge
