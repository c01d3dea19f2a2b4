// Package prediction supplies predicted queue-wait curves to the planner.
// Curves arrive pre-computed inside a snapshot; this package fills in
// category-median fallback curves when real data is missing or partial, and
// flags every substituted curve as estimated so callers can tell it apart.
package prediction
