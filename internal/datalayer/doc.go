// Package datalayer assembles the set of tag values a page would hand to
// the tag manager (the utag_data object).
//
// Every value passes through tag.IsValid. Accepted values are kept; rejected
// ones are recorded with their reason so callers can report them. The
// resulting DataLayer serializes to canonical JSON and carries a content
// hash, which makes identical pages produce byte-identical payloads.
//
// # Usage
//
//	b := datalayer.New(datalayer.WithLogger(logger))
//	b.Set("page_type", "front")
//	b.Set("page_index", 0)
//	b.Set("logged_in", false) // rejected: boolean
//	dl := b.Build()
//	payload, err := dl.JSON()
package datalayer
