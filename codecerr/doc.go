// Package codecerr defines the typed errors reported by the spectrogram codec.
//
// Every failure carries the offending field and value. Match the failure class
// with errors.Is against one of the sentinel values and use errors.As to reach
// the *Error for details.
package codecerr
