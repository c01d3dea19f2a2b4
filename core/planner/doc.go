// Package planner turns a wishlist of attractions, predicted wait curves,
// fixed-time entertainment and park hours into a conflict-free day-by-day
// trip plan. Planning is a pure, synchronous computation: one request plus
// its immutable snapshot in, one TripPlan out. The pipeline runs strictly
// forward — anchors, headliners, rope-drop, scored fill, park hops,
// multi-day distribution, re-rides, assembly — and no stage moves a block an
// earlier stage committed.
package planner
