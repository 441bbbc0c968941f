// Package reader provides positioned text fragments, page by page, from a
// document.
//
// # Sources
//
// Every input is consumed through the [Source] interface:
//
//	src, err := reader.Open("spielplan.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
//	for n := 1; n <= src.PageCount(); n++ {
//	    frags, err := src.Page(n)
//	    ...
//	}
//
// [PDF] decodes the page content streams and merges the decoded glyphs into
// fragments with a [text.Merger]. [Memory] serves fragments that are already
// known, which is how tests and callers with their own decoder feed the
// row reconstruction.
//
// # Page Numbers
//
// Pages are 1-indexed. A page outside 1..PageCount() returns an error
// wrapping [ErrPageRange]. A page without content yields no fragments and no
// error.
package reader
