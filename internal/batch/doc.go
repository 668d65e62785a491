// Package batch drives the converter over a list of export files, one at a
// time and in the order given, and hands each artifact to a Sink.
//
// Whether one file's failure stops the rest is the caller's choice, made
// with a Policy. Files are never converted concurrently: each export is
// loaded whole into memory and exports run to tens of megabytes.
package batch
