// Package layout computes card positions and connecting lines for family
// tree visualizations.
//
// # Overview
//
// [Build] takes a read-only [Source] (normally a *family.Tree) and returns a
// [Layout] holding everything a renderer needs:
//
//   - The top-left corner of every person's card
//   - Couple links between partners
//   - Parent links from a parent, or a couple's junction, to each child
//   - Canvas dimensions
//
// Renderers do no layout math of their own.
//
// # Algorithm
//
// Generations run top to bottom and separate trees left to right. For each
// root:
//
//  1. The subtree width is the wider of the couple (one card, or two cards
//     plus the couple gap) and the children side by side with sibling gaps.
//  2. The person is centered over that width and the partner, if not placed
//     yet, sits to the right. Children are laid out one generation down,
//     each in a slot as wide as its own subtree.
//  3. A forest-wide placed set ensures nobody is positioned twice, even when
//     reachable from several roots through partner links.
//
// # Width Approximation
//
// The width computation guards against malformed cyclic data with a visited
// set scoped to the current recursion path. It is not shared between
// siblings, so a person reachable along two paths (shared grandchildren of
// two children who are partners) is counted once per path. Layouts may
// therefore reserve more room than strictly needed; they never overlap.
//
// # Options
//
//   - [WithNodeSize]: card size (default 110x130)
//   - [WithGaps]: generation, sibling and couple gaps (default 130, 35, 30)
//   - [WithOrigin]: top-left corner of the first tree (default 40, 40)
//   - [WithRootSpacing]: space between separate trees (default 100)
//
// # Integration
//
//	family.Tree → layout.Build → sink.RenderSVG
//
// The JSON form of a [Layout] lives in package graph.
package layout
