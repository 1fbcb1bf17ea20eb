// Package family models a genealogical record: people linked by parent/child
// and partner relationships, stored in a [graph.Graph] that doubles as a
// geographic proximity graph.
//
// # Relationships
//
// Parent/child links live in a [Relations] store that answers both
// directions (parents of a child, children of a parent) from a single
// relation. [Tree.AddChild] enforces two rules before changing anything:
//
//   - The parent relation stays acyclic. A link that would make someone
//     their own ancestor fails with CYCLE_REJECTED.
//   - A person has at most two distinct parents. A third fails with
//     TOO_MANY_PARENTS.
//
// Partners are symmetric references on [Person]. [Tree.Children] of one
// partner includes the children declared under the other, so a couple's
// children show up under either side. Reassigning a partner is permitted and
// leaves the previous partner pointing at the person; callers that need
// exclusive pairs must check [Person.HasPartner] themselves.
//
// # Roots
//
// [Tree.Roots] returns the people where tree layouts start: those who have
// no recorded parent and whose partner has none either. A couple without
// ancestors is returned once, represented by the partner with the smaller
// identifier.
//
// # Proximity
//
// [Tree.BuildLocationEdges] rebuilds the graph's edges as great-circle
// distances between every pair of people. [Tree.PairStats],
// [Tree.DistancesFrom], [Tree.NetworkDistancesFrom] and [Tree.Route] answer
// distance questions on top of it.
//
// # Change Notification
//
// [Tree.Subscribe] registers a listener that is called synchronously after
// every mutating operation. There is no diffing or coalescing.
//
// # Persistence
//
// [Tree.Records] and [Tree.Load] convert to and from the flat record list of
// package io. Only person attributes are persisted; relationships are lost on
// reload. [FromDefinition] builds a family, relationships included, from a
// TOML definition.
//
// # Concurrency
//
// A Tree is not safe for concurrent use. Serialize access externally.
package family
