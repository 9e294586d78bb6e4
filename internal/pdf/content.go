package pdf

// content.go implements the text-layer strip transform applied to page
// content streams. Text objects (BT..ET) carry the recognizable-text layer;
// everything else in the stream - path construction, painting, clipping,
// inline and XObject images - is passed through untouched. The transform is
// deliberately conservative: when in doubt it keeps bytes, so visual content
// survives even if some text escapes removal.

// stripTextObjects returns content with every BT..ET text object removed.
// String literals and hex strings are tracked so operator lookalikes inside
// them are ignored. Text objects cannot nest in PDF content streams, so a
// single in-text flag suffices.
func stripTextObjects(content []byte) []byte {
	out := make([]byte, 0, len(content))

	inText := false
	i := 0
	for i < len(content) {
		c := content[i]

		// String literal: copy (or skip, inside a text object) verbatim.
		if c == '(' {
			end := skipLiteralString(content, i)
			if !inText {
				out = append(out, content[i:end]...)
			}
			i = end
			continue
		}

		// Hex string.
		if c == '<' && i+1 < len(content) && content[i+1] != '<' {
			end := skipHexString(content, i)
			if !inText {
				out = append(out, content[i:end]...)
			}
			i = end
			continue
		}

		if isOperatorAt(content, i, "BT") {
			inText = true
			i += 2
			continue
		}
		if inText && isOperatorAt(content, i, "ET") {
			inText = false
			i += 2
			continue
		}

		if !inText {
			out = append(out, c)
		}
		i++
	}

	return out
}

// skipLiteralString returns the index just past a (..) literal starting at
// start, honoring backslash escapes and balanced parentheses.
func skipLiteralString(content []byte, start int) int {
	depth := 0
	i := start
	for i < len(content) {
		switch content[i] {
		case '\\':
			i++ // skip escaped byte
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(content)
}

// skipHexString returns the index just past a <..> hex string starting at start.
func skipHexString(content []byte, start int) int {
	for i := start + 1; i < len(content); i++ {
		if content[i] == '>' {
			return i + 1
		}
	}
	return len(content)
}

// isOperatorAt reports whether the operator op occurs at offset i as a
// standalone token, bounded by whitespace or delimiters on both sides.
func isOperatorAt(content []byte, i int, op string) bool {
	if i+len(op) > len(content) {
		return false
	}
	for j := 0; j < len(op); j++ {
		if content[i+j] != op[j] {
			return false
		}
	}
	if i > 0 && !isDelimiter(content[i-1]) {
		return false
	}
	if i+len(op) < len(content) && !isDelimiter(content[i+len(op)]) {
		return false
	}
	return true
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
