// Package filter implements facetfilter's filter engine: the ordered set of
// active filter entries per category, the visibility rule that takes the
// union of active values within a category and the intersection across
// categories, and the enumeration of candidate options for a search box.
//
// [ActiveSet] values are immutable. Every mutating method returns a new set,
// so a set can be handed to observers or other goroutines as a snapshot.
package filter
