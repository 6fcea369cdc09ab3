// Package scrollsync keeps a plain-text markdown source pane and a rendered
// preview pane visually aligned while either one scrolls.
//
// The engine works from structural anchors (headings, rules, tables, images,
// blockquotes, code fences) parsed out of the raw document. Each sync takes a
// fresh snapshot of the preview's rendered element positions, joins them with
// the parsed anchors, and interpolates between the two scroll axes. Two
// symmetric drivers with flag/timer suppression prevent the panes from
// re-triggering each other.
package scrollsync
