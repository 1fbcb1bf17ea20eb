// Package geomap draws a family on an equirectangular world map.
//
// Every person becomes a marker at geo.ToPixel of their coordinates over a
// 30° graticule. Optionally:
//
//   - [WithDistancesFrom] adds dashed lines from one person to all others,
//     each labeled "N.N km" with the great-circle distance
//   - [WithRoute] adds a polyline through a chain of people, usually the
//     result of family.Tree.Route
//
// No coastlines are drawn; the map shows relative placement only.
package geomap
