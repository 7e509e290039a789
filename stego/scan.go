package stego

// balancedObject isolates exactly one top-level JSON object from a code-unit
// sequence that may be preceded or followed by garbage. It returns the units
// from the first '{' through its matching '}', honoring string literals and
// escapes so braces inside values cannot unbalance the scan.
func balancedObject(units []uint16) ([]uint16, bool) {
	start := -1
	for i, u := range units {
		if u == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(units); i++ {
		u := units[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case u == '\\':
				escaped = true
			case u == '"':
				inString = false
			}
			continue
		}
		switch u {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return units[start : i+1], true
			}
		}
	}
	return nil, false
}
