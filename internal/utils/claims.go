package utils

// StringsFromClaim converts a decoded JSON claim into a string slice.
// Non-string elements are skipped; anything that is not a list yields nil.
func StringsFromClaim(claim any) []string {
	switch v := claim.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
