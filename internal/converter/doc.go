// Package converter turns a device telemetry export into a CSV artifact.
//
// Conversion is a strict linear sequence over one loaded export:
//
//	Probe -> Validate -> Build -> Execute -> Transform -> Serialize -> DeriveName
//
// Each stage either returns its result or fails the whole file. Nothing is
// retried and no partial output is produced. Column presence is resolved
// once, by Probe, into a types.FieldExtractionPlan; later stages never look
// at the source schema again.
package converter
