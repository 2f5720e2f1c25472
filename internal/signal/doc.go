// Package signal defines the categorized forensic evidence model shared by
// every extractor.
//
// Extractors emit human-readable indicator strings into a Bucket under one
// of four mutually exclusive categories. Downstream code branches only on
// category counts; the strings are opaque payloads rendered verbatim in
// reports.
package signal
