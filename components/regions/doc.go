// Package regions provides the country and state lists behind address
// fields: embedded data, search helpers and a chi router answering JSON
// option lists.
//
// Countries are served under <RoutePath>/countries and the states of one
// country under <RoutePath>/countries/{country}/states. Both accept the
// search and limit query parameters.
package regions
