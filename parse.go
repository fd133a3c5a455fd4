package fgdb

import (
	"io/ioutil"
	"regexp"
	"strings"
)

// Mode says how an operation expression addresses its function and
// input blocks.
type Mode int

const (
	ByName Mode = iota // symbolic identifiers, resolved via FindByName
	ByCode             // 64-hex block codes, verified against the block map
)

func (m Mode) String() string {
	switch m {
	case ByName:
		return "byname"
	case ByCode:
		return "bycode"
	}
	return "unknown"
}

// Request is one parsed operation expression: output = function(input).
type Request struct {
	Output   string
	Function string
	Input    string
	Mode     Mode
}

// The hash-addressed grammar is tried before the symbolic one: a
// 64-hex code also matches \w+, so precedence is what keeps code
// references from being misread as names.
var (
	hashExpr = regexp.MustCompile(`^\s*(\w+)\s*=\s*([a-f0-9]{64})\s*\(\s*([a-f0-9]{64})\s*\)\s*$`)
	nameExpr = regexp.MustCompile(`^\s*(\w+)\s*=\s*(\w+)\s*\(\s*(\w+)\s*\)\s*$`)
)

// ParseOperation parses one line of operation text.  Whitespace
// around tokens is insignificant.  A line matching neither grammar
// yields a MalformedExpressionError and no partial result.
func ParseOperation(line string) (req *Request, err error) {
	if m := hashExpr.FindStringSubmatch(line); m != nil {
		return &Request{Output: m[1], Function: m[2], Input: m[3], Mode: ByCode}, nil
	}
	if m := nameExpr.FindStringSubmatch(line); m != nil {
		return &Request{Output: m[1], Function: m[2], Input: m[3], Mode: ByName}, nil
	}
	return nil, &MalformedExpressionError{Expr: strings.TrimSpace(line)}
}

// ParseOperationFile reads an operation file and parses its first
// non-empty line.
func ParseOperationFile(path string) (req *Request, err error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(buf), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return ParseOperation(line)
	}
	return nil, &MalformedExpressionError{Expr: ""}
}
