package fgdb

import (
	"testing"
)

func TestCode(t *testing.T) {
	expect := "70a524688ced8e45d26776fd4dc56410725b566cd840c044546ab30c4b499342"
	got := Code("somevalue")
	tassert(t, got == expect, "expected %q got %q", expect, got)

	// deterministic and pure
	tassert(t, Code("somevalue") == got, "code is not deterministic")

	// distinct identities give distinct codes
	tassert(t, Code("somevalue") != Code("someothervalue"), "collision")
	tassert(t, Code("a1") != Code("a2"), "collision")
}

func TestHead(t *testing.T) {
	code := Code("somevalue")
	head := Head(code)
	tassert(t, len(head) == HeadLen, "head len %d", len(head))
	tassert(t, code[:HeadLen] == head, "head %q is not a prefix of %q", head, code)
	tassert(t, Head("ab") == "ab", "short input should pass through")
}
