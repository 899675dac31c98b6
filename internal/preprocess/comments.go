package preprocess

// blankComment replaces every byte of a comment token's payload with a
// space, except newlines, which are kept so line numbers in the blanked
// stream still match the original source (§4.2).
func blankComment(payload []byte) []byte {
	out := make([]byte, len(payload))
	for i, b := range payload {
		if b == '\n' {
			out[i] = '\n'
		} else {
			out[i] = ' '
		}
	}
	return out
}
