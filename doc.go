// Package scorecard contains the cache-or-build framework used to turn the
// College Scorecard raw data releases into typed, query-ready datasets.
//
// Three remote resources are handled, each by its own subpackage:
//
// 1. Schema
//
//	The data dictionary spreadsheet describes every column the Scorecard
//	publishes. The schema subpackage parses it into an immutable catalog of
//	typed column descriptors, including the decode tables for categorical
//	columns. The catalog drives everything the panel loader does.
//
// 2. Panel
//
//	The raw data release is a zip of one CSV per academic year. The panel
//	subpackage extracts the yearly files, restricts and coerces them to the
//	catalog's columns and types, stamps each row with its academic year, and
//	unions everything into one dataset.
//
// 3. Geo
//
//	The state boundary release is a zip of shapefile siblings. The geo
//	subpackage flattens them into one directory and reads them back as a
//	table of named boundary features.
//
// All three loaders share the Loader template in this package: given a local
// path, either load the previously persisted artifact, or fetch the remote
// resource, transform it, and persist the result. Presence of the artifact is
// the only cache signal; there is no freshness checking.
package scorecard
