package vault

// The _files_.pwd column is a small tagged blob: a one-byte mode
// discriminator followed, for PasswordLiteral, by the 16-byte per-file
// authentication check. The container format's contract (§6) pins the
// table and column names, not this internal byte layout, so this
// encoding is an implementer's choice free to evolve independently.
const (
	pwdTagNone    byte = 0
	pwdTagDefault byte = 1
	pwdTagLiteral byte = 2
)

func encodePwd(mode PasswordMode, auth []byte) []byte {
	switch mode {
	case PasswordDefault:
		return []byte{pwdTagDefault}
	case PasswordLiteral:
		out := make([]byte, 0, 1+len(auth))
		out = append(out, pwdTagLiteral)
		out = append(out, auth...)

		return out
	default:
		return []byte{pwdTagNone}
	}
}

func decodePwd(b []byte) (PasswordMode, []byte) {
	if len(b) == 0 {
		return PasswordNone, nil
	}

	switch b[0] {
	case pwdTagDefault:
		return PasswordDefault, nil
	case pwdTagLiteral:
		return PasswordLiteral, b[1:]
	default:
		return PasswordNone, nil
	}
}
