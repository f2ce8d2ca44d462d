// Package list implements object listing for the collector.
//
// Listing is sequential. List fetches exactly one page, which is what the
// contents check needs. A Paginator walks continuation tokens page by page,
// and Collect drains it into a single ordered slice for the download pass.
package list
