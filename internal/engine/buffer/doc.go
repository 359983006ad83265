// Package buffer holds the editable character sequence of a document.
//
// Offsets are rune indices. A paragraph ends with a break character
// ('\n', '\r', U+2028 or U+2029); "\r\n" counts as a single two-character
// break.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello World")
//	buf.Insert(5, "!")      // "Hello! World"
//	buf.Delete(0, 1)        // "ello! World"
//	buf.Paragraphs()        // 1
package buffer
