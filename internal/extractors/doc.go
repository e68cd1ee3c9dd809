// Package extractors provides implementations of the Extractor interface
// for various document formats. Each extractor knows how to pull plain
// text out of a specific MIME type.
//
// Extractors are registered with the ExtractorRegistry at startup.
package extractors
