// Package text provides small text utilities shared by validation logic.
package text

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Length policies on user-supplied fields count characters, not bytes,
// so multi-byte input such as Japanese text or emoji is measured correctly.
//
//	CountRunes("hello")    // 5
//	CountRunes("こんにちは") // 5
func CountRunes(text string) int {
	return len([]rune(text))
}
