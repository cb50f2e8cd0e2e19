// Package language normalizes the language tag carried by transcript files.
//
// Transcription tools emit anything from "ja" to "Japanese" to "pt_BR"; this
// package funnels all of them through golang.org/x/text/language so logs,
// history rows, and sidecar names agree on one canonical BCP 47 form.
package language
