// Package parsers provides implementations of the Parser interface
// for the supported document formats. Each parser knows how to extract
// text segments from one format.
//
// Parsers are registered with the ParserRegistry at startup.
package parsers
