package match

import "unicode"

// emojiTable lists the code point ranges counted as emoji. Arrows, ©, ® and
// ™ are left out: they show up in ordinary text far more often than as emoji.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x2328, Hi: 0x2328, Stride: 1},
		{Lo: 0x23cf, Hi: 0x23cf, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23f3, Stride: 1},
		{Lo: 0x23f8, Hi: 0x23fa, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1}, // misc symbols, dingbats
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2b05, Hi: 0x2b07, Stride: 1},
		{Lo: 0x2b1b, Hi: 0x2b1c, Stride: 1},
		{Lo: 0x2b50, Hi: 0x2b50, Stride: 1},
		{Lo: 0x2b55, Hi: 0x2b55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1f0ff, Stride: 1}, // mahjong, playing cards
		{Lo: 0x1f170, Hi: 0x1f1ff, Stride: 1}, // enclosed alphanumerics, regional indicators
		{Lo: 0x1f200, Hi: 0x1f2ff, Stride: 1},
		{Lo: 0x1f300, Hi: 0x1f3fa, Stride: 1}, // pictographs up to the skin tone modifiers
		{Lo: 0x1f400, Hi: 0x1f64f, Stride: 1}, // pictographs, emoticons
		{Lo: 0x1f680, Hi: 0x1f6ff, Stride: 1}, // transport and map
		{Lo: 0x1f7e0, Hi: 0x1f7eb, Stride: 1}, // geometric shapes extended
		{Lo: 0x1f900, Hi: 0x1f9ff, Stride: 1}, // supplemental symbols and pictographs
		{Lo: 0x1fa70, Hi: 0x1faff, Stride: 1}, // symbols and pictographs extended-A
	},
}

const (
	zeroWidthJoiner = 0x200d
	keycapCombiner  = 0x20e3
	regionalLo      = 0x1f1e6
	regionalHi      = 0x1f1ff
)

// IsEmoji reports whether r is an emoji code point.
func IsEmoji(r rune) bool {
	return unicode.Is(emojiTable, r)
}

// CountEmoji counts emoji in s. A ZWJ sequence counts once, a pair of regional
// indicators (a flag) counts once and a keycap sequence counts once. Skin tone
// modifiers and variation selectors are never counted.
func CountEmoji(s string) int {
	count := 0
	joined := false // previous rune was a ZWJ following an emoji
	prevEmoji := false
	pendingRegional := false

	for _, r := range s {
		switch {
		case r == zeroWidthJoiner:
			joined = prevEmoji
			continue
		case r == keycapCombiner:
			count++
			prevEmoji = true
			joined = false
			pendingRegional = false
			continue
		case r >= regionalLo && r <= regionalHi:
			if pendingRegional {
				pendingRegional = false
			} else {
				count++
				pendingRegional = true
			}
			prevEmoji = true
			joined = false
			continue
		case IsEmoji(r):
			if !joined {
				count++
			}
			prevEmoji = true
		case isEmojiModifier(r):
			// skin tones and variation selectors attach to the previous emoji
			continue
		default:
			prevEmoji = false
		}
		joined = false
		pendingRegional = false
	}
	return count
}

func isEmojiModifier(r rune) bool {
	return (r >= 0x1f3fb && r <= 0x1f3ff) || r == 0xfe0f || r == 0xfe0e
}
