package golox

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrInterpretRuntimeError = errors.New("golox runtime error")
	ErrInterpretCompileError = errors.New("golox compile error")
)

// VM executes one chunk at a time on an operand stack preallocated to
// stackMax slots; pushes past that grow the slice rather than fail. The
// bytecode is trusted: the compiler's stack discipline guarantees every
// operand byte indexes a valid slot, so the dispatch loop does not
// range-check what a well-formed chunk cannot get wrong.
type VM struct {
	chunk   *chunk
	ip      int
	stack   []Value
	Globals map[String]Value
	stdout  io.Writer
	stderr  io.Writer
}

func New() *VM {
	return &VM{
		stack:   make([]Value, 0, stackMax),
		Globals: make(map[String]Value),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

func (vm *VM) Interpret(source []byte) error {
	c := newCompiler(source)
	c.errw = vm.stderr
	compiled := c.compile()
	if compiled == nil {
		return ErrInterpretCompileError
	}

	if debugPrintCode {
		disassembleChunk(vm.stdout, compiled, "code")
	}

	vm.chunk = compiled
	vm.ip = 0
	vm.resetStack()

	return vm.run()
}

func (vm *VM) readByte() uint8 {
	vm.ip++
	return vm.chunk.code[vm.ip-1]
}

func (vm *VM) readConstant() Value {
	return vm.chunk.constants[vm.readByte()]
}

func (vm *VM) readString() String {
	return vm.readConstant().(String)
}

func (vm *VM) run() error {
	for {
		if debugTraceExecution {
			for _, slot := range vm.stack {
				fmt.Fprintf(vm.stdout, "[%s]", sprintValue(slot))
			}
			fmt.Fprintln(vm.stdout)
		}

		switch instruction := vm.readByte(); instruction {
		case opConstant:
			constant := vm.readConstant()
			vm.push(constant)
		case opNil:
			vm.push(Nil{})
		case opTrue:
			vm.push(Boolean(true))
		case opFalse:
			vm.push(Boolean(false))
		case opPop:
			vm.pop()
		case opGetLocal:
			slot := int(vm.readByte())
			vm.push(vm.stack[slot])
		case opSetLocal:
			slot := int(vm.readByte())
			vm.stack[slot] = vm.peek(0)
		case opGetGlobal:
			name := vm.readString()
			value, ok := vm.Globals[name]
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.push(value)
		case opDefineGlobal:
			name := vm.readString()
			vm.Globals[name] = vm.peek(0)
			vm.pop()
		case opSetGlobal:
			name := vm.readString()
			if _, ok := vm.Globals[name]; !ok {
				// Assignment never creates a global.
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.Globals[name] = vm.peek(0)
		case opEqual:
			v2 := vm.pop()
			v1 := vm.pop()
			vm.push(Boolean(v1 == v2))
		case opAdd:
			v1, isString1 := vm.peek(1).(String)
			v2, isString2 := vm.peek(0).(String)
			if isString1 && isString2 {
				vm.pop()
				vm.pop()
				vm.push(v1 + v2)
			} else {
				if err := vm.binaryOp(
					binaryOps[instruction],
					"Operands must be two numbers or two strings.",
				); err != nil {
					return err
				}
			}
		case opGreater, opLess, opSubtract, opMultiply, opDivide:
			if err := vm.binaryOp(binaryOps[instruction], "Operands must be numbers."); err != nil {
				return err
			}
		case opNot:
			vm.push(!valueToBoolean(vm.pop()))
		case opNegate:
			v, isNumber := vm.peek(0).(Number)
			if !isNumber {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-v)
		case opPrint:
			fmt.Fprintln(vm.stdout, sprintValue(vm.pop()))
		case opReturn:
			return nil
		default:
			panic("run: unknown instruction")
		}
	}
}

func (vm *VM) resetStack() {
	vm.stack = vm.stack[:0]
}

func (vm *VM) push(value Value) {
	vm.stack = append(vm.stack, value)
}

func (vm *VM) pop() Value {
	value := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return value
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) runtimeError(format string, a ...any) error {
	fmt.Fprintf(vm.stderr, format+"\n", a...)

	line := vm.chunk.lines[vm.ip-1]
	fmt.Fprintf(vm.stderr, "[line %d] in script\n", line)

	vm.resetStack()
	return ErrInterpretRuntimeError
}

func (vm *VM) binaryOp(f func(a, b Number) Value, message string) error {
	v1, isNumber1 := vm.peek(1).(Number)
	v2, isNumber2 := vm.peek(0).(Number)
	if !isNumber1 || !isNumber2 {
		return vm.runtimeError(message)
	}
	vm.pop()
	vm.pop()
	vm.push(f(v1, v2))
	return nil
}

var binaryOps = map[uint8]func(a, b Number) Value{
	opGreater:  func(a, b Number) Value { return Boolean(a > b) },
	opLess:     func(a, b Number) Value { return Boolean(a < b) },
	opAdd:      func(a, b Number) Value { return a + b },
	opSubtract: func(a, b Number) Value { return a - b },
	opMultiply: func(a, b Number) Value { return a * b },
	opDivide:   func(a, b Number) Value { return a / b },
}
