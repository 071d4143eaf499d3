package btgrep

// QuoteMeta returns a string that escapes every pattern metacharacter in
// s; compiling the result matches s literally. The CLI uses this for
// fixed-string mode.
//
// Example:
//
//	pat := btgrep.MustCompile(btgrep.QuoteMeta("1+1=2?"))
//	pat.MatchString("is 1+1=2?") // true
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
