package golox

import (
	"fmt"
	"io"
)

func disassembleChunk(w io.Writer, chunk *chunk, name string) {
	fmt.Fprintln(w, cover(name, 16, "="))

	for offset := 0; offset < len(chunk.code); {
		offset = disassembleInstruction(w, chunk, offset)
		fmt.Fprintln(w)
	}
}

func disassembleInstruction(w io.Writer, chunk *chunk, offset int) int {
	fmt.Fprintf(w, "%04d", offset)
	if offset > 0 && chunk.lines[offset] == chunk.lines[offset-1] {
		fmt.Fprintf(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.lines[offset])
	}

	switch chunk.code[offset] {
	case opNil, opTrue, opFalse, opPop, opEqual, opGreater, opLess,
		opAdd, opSubtract, opMultiply, opDivide, opNot, opNegate,
		opPrint, opReturn:
		return simpleInstruction(w, chunk, offset)
	case opConstant, opDefineGlobal, opGetGlobal, opSetGlobal:
		return constantInstruction(w, chunk, offset)
	case opGetLocal, opSetLocal:
		return byteInstruction(w, chunk, offset)
	default:
		panic("disassemble instruction: unknown instruction")
	}
}

func constantInstruction(w io.Writer, chunk *chunk, offset int) int {
	name := instructionNames[chunk.code[offset]]
	constant := chunk.code[offset+1]
	fmt.Fprintf(w, "%-16s |> %04d '%s'", name, constant, sprintValue(chunk.constants[constant]))

	return offset + 2
}

func simpleInstruction(w io.Writer, chunk *chunk, offset int) int {
	name := instructionNames[chunk.code[offset]]
	fmt.Fprintf(w, "%-16s |", name)
	return offset + 1
}

func byteInstruction(w io.Writer, chunk *chunk, offset int) int {
	name := instructionNames[chunk.code[offset]]
	slot := chunk.code[offset+1]
	fmt.Fprintf(w, "%-16s |> %04d", name, slot)
	return offset + 2
}

var instructionNames = [...]string{
	opConstant:     "OP_CONSTANT",
	opNil:          "OP_NIL",
	opTrue:         "OP_TRUE",
	opFalse:        "OP_FALSE",
	opPop:          "OP_POP",
	opDefineGlobal: "OP_DEFINE_GLOBAL",
	opGetGlobal:    "OP_GET_GLOBAL",
	opSetGlobal:    "OP_SET_GLOBAL",
	opGetLocal:     "OP_GET_LOCAL",
	opSetLocal:     "OP_SET_LOCAL",
	opEqual:        "OP_EQUAL",
	opGreater:      "OP_GREATER",
	opLess:         "OP_LESS",
	opAdd:          "OP_ADD",
	opSubtract:     "OP_SUBTRACT",
	opMultiply:     "OP_MULTIPLY",
	opDivide:       "OP_DIVIDE",
	opNegate:       "OP_NEGATE",
	opNot:          "OP_NOT",
	opPrint:        "OP_PRINT",
	opReturn:       "OP_RETURN",
}
