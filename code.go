package fgdb

import (
	"crypto/sha256"
	"encoding/hex"
)

// HeadLen is the number of leading hex digits used as a block's short
// display label.
const HeadLen = 8

// Code hashes an identity string and returns the hex digest.  This is
// the block's primary key: identical identities always map to the
// same code, and distinct identities collide only if sha256 does.
// Code never hashes block content, only the identity string.
func Code(identity string) string {
	binhash := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(binhash[:])
}

// Head returns the short display prefix of a code.
func Head(code string) string {
	if len(code) < HeadLen {
		return code
	}
	return code[:HeadLen]
}
