package golox

import (
	"fmt"
	"math"
	"strings"
)

const Version = "0.1.0"

const (
	eofByte byte = 0

	uint8Max uint8 = math.MaxUint8

	uint8Count int = math.MaxUint8 + 1

	// The compiler's local table is bounded by this (a local's slot
	// index must fit in one byte); the VM preallocates its operand
	// stack to the same size.
	stackMax = uint8Count
)

const (
	debugTraceExecution = false
	debugPrintCode      = false
	debugPrintTokens    = false
)

func cover(str string, width int, c string) string {
	left := (width - len(str)/2) - 1
	var right int
	if len(str)%2 == 0 {
		right = left
	} else {
		right = left + 1
	}
	return fmt.Sprintf(
		"%s %s %s",
		multiplyString(c, left),
		str,
		multiplyString(c, right),
	)
}

func multiplyString(str string, m int) string {
	var res strings.Builder
	for i := 0; i < m; i++ {
		res.WriteString(str)
	}
	return res.String()
}
