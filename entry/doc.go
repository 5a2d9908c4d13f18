// Package entry provides path-carrying cursors over backing data
// sources.
//
// An Entry pairs an in-memory cache with a Source and a position inside
// it. Reads resolve against the cache first and fall back to the source,
// writing the fetched value through into the cache; mutations apply to
// the cache only until an explicit Flush. Child derives a new cursor
// sharing the cache and source with an extended path.
//
// A Source is the backend contract external stores implement. Two
// composite sources come with the package: Chain (try several sources in
// priority order, first non-absent wins) and Proxy (remap incoming paths
// through a translation table before delegating). Sources are opened
// from URIs of the form
//
//	<local-schema>+<protocol>://<authority><path>?<query>#<fragment>
//
// where the protocol selects a registered source factory and a differing
// local schema routes through a Proxy whose translation table is found
// on the mapping search path.
package entry
