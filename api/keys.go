package api

import (
	"strings"
)

// NormalizePublicKey converts a hex-encoded public key to its canonical
// form: 0x-prefixed, all lowercase. Keys must always be normalized before
// equality checks since submitters are free to mix case and prefixes.
func NormalizePublicKey(pubkey string) string {
	pubkey = strings.ToLower(pubkey)
	pubkey = strings.TrimPrefix(pubkey, "0x")
	return "0x" + pubkey
}
