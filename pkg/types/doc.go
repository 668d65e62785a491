// Package types defines the query executor interface, the extraction plan,
// validation report, output artifact and configuration types, and the
// standard errors shared by the djirun packages.
package types
