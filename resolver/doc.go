// Package resolver joins extracted match records with the hall directory.
//
// Records leave the schedule extractor with a hall code in their Venue
// field. [Resolver.Resolve] replaces each code with the hall's address. A code
// the directory does not know yields an empty venue and a [Miss]; it is never
// an error.
//
//	r := resolver.New(dir)
//	records, misses := r.Resolve(extracted)
package resolver
