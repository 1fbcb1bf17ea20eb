// Package sink writes family tree layouts as SVG.
//
// [RenderSVG] draws the output of layout.Build as-is: every segment becomes a
// line and every placed person a card. It does no positioning of its own.
//
// Options:
//
//   - [WithTree]: names, lifespans and national ids on the cards
//   - [WithTheme]: render.Dark (default) or render.Light colors
//   - [WithHighlight]: outline selected people
//   - [WithTitle]: an SVG title element
//
// Deceased people's cards use a muted fill.
package sink
