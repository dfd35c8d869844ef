// seehuhn.de/go/cms - color management and pixel sampling for PDF rendering
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package function

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Type4 represents a PostScript calculator function.  The calculator
// program is parsed once at construction time; Apply evaluates the
// parsed form on an operand stack.
type Type4 struct {
	// Domain defines the valid input ranges as [min0, max0, ...].
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, ...].
	Range []float64

	// Program is the calculator program, including the outer braces.
	Program string

	body []psInstr
}

// NewType4 parses the calculator program and validates the function.
func NewType4(f *Type4) (*Type4, error) {
	m := len(f.Domain) / 2
	n := len(f.Range) / 2
	if m < 1 || len(f.Domain) != 2*m {
		return nil, newInvalidFunctionError(4, "Domain",
			"length %d is not a positive multiple of 2", len(f.Domain))
	}
	if n < 1 || len(f.Range) != 2*n {
		return nil, newInvalidFunctionError(4, "Range",
			"length %d is not a positive multiple of 2", len(f.Range))
	}
	for i := range m {
		if !isRange(f.Domain[2*i], f.Domain[2*i+1]) {
			return nil, newInvalidFunctionError(4, "Domain",
				"invalid interval [%g, %g]", f.Domain[2*i], f.Domain[2*i+1])
		}
	}

	body, err := parseCalculator(f.Program)
	if err != nil {
		return nil, newInvalidFunctionError(4, "Program", "%s", err)
	}
	f.body = body
	return f, nil
}

// Shape returns the number of input and output values of the function.
func (f *Type4) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply applies the function to the given input values and returns the
// output values.  Program errors during evaluation yield zero outputs,
// clipped to the range.
func (f *Type4) Apply(inputs ...float64) []float64 {
	m, n := f.Shape()

	stack := make([]float64, 0, psStackLimit)
	for i := range m {
		stack = append(stack, clip(inputs[i], f.Domain[2*i], f.Domain[2*i+1]))
	}

	stack, err := psExecute(f.body, stack)

	outputs := make([]float64, n)
	if err == nil && len(stack) >= n {
		copy(outputs, stack[len(stack)-n:])
	}
	for i := range n {
		outputs[i] = clip(outputs[i], f.Range[2*i], f.Range[2*i+1])
	}
	return outputs
}

// psStackLimit is the operand stack size limit for calculator programs.
const psStackLimit = 100

type psOp uint8

const (
	opPush psOp = iota
	opAbs
	opAdd
	opAtan
	opCeiling
	opCos
	opCvi
	opCvr
	opDiv
	opExp
	opFloor
	opIdiv
	opLn
	opLog
	opMod
	opMul
	opNeg
	opRound
	opSin
	opSqrt
	opSub
	opTruncate
	opAnd
	opBitshift
	opEq
	opFalse
	opGe
	opGt
	opLe
	opLt
	opNe
	opNot
	opOr
	opTrue
	opXor
	opCopy
	opDup
	opExch
	opIndex
	opPop
	opRoll
	opIf
	opIfElse
)

var psOps = map[string]psOp{
	"abs": opAbs, "add": opAdd, "atan": opAtan, "ceiling": opCeiling,
	"cos": opCos, "cvi": opCvi, "cvr": opCvr, "div": opDiv, "exp": opExp,
	"floor": opFloor, "idiv": opIdiv, "ln": opLn, "log": opLog,
	"mod": opMod, "mul": opMul, "neg": opNeg, "round": opRound,
	"sin": opSin, "sqrt": opSqrt, "sub": opSub, "truncate": opTruncate,
	"and": opAnd, "bitshift": opBitshift, "eq": opEq, "false": opFalse,
	"ge": opGe, "gt": opGt, "le": opLe, "lt": opLt, "ne": opNe,
	"not": opNot, "or": opOr, "true": opTrue, "xor": opXor,
	"copy": opCopy, "dup": opDup, "exch": opExch, "index": opIndex,
	"pop": opPop, "roll": opRoll,
}

// psInstr is one parsed instruction.  For opIf and opIfElse the proc
// fields hold the procedure bodies.
type psInstr struct {
	op           psOp
	val          float64
	proc1, proc2 []psInstr
}

// parseCalculator parses a calculator program, including the outer
// braces, into a list of instructions.
func parseCalculator(program string) ([]psInstr, error) {
	tokens, err := psTokenize(program)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 || tokens[0] != "{" {
		return nil, fmt.Errorf("program must start with '{'")
	}
	body, rest, err := psParseBlock(tokens[1:])
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("unexpected tokens after program end")
	}
	return body, nil
}

func psTokenize(src string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '{' || c == '}':
			tokens = append(tokens, string(c))
			i++
		case c == '%':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		default:
			start := i
			for i < len(src) && !unicode.IsSpace(rune(src[i])) &&
				src[i] != '{' && src[i] != '}' && src[i] != '%' {
				i++
			}
			tokens = append(tokens, src[start:i])
		}
	}
	return tokens, nil
}

// psParseBlock parses tokens up to the matching closing brace.
func psParseBlock(tokens []string) (body []psInstr, rest []string, err error) {
	// pending procedure blocks, waiting for "if" or "ifelse"
	var procs [][]psInstr

	flushProcs := func() error {
		if len(procs) != 0 {
			return fmt.Errorf("procedure not consumed by if or ifelse")
		}
		return nil
	}

	for len(tokens) > 0 {
		tok := tokens[0]
		tokens = tokens[1:]

		switch tok {
		case "}":
			if err := flushProcs(); err != nil {
				return nil, nil, err
			}
			return body, tokens, nil

		case "{":
			var proc []psInstr
			proc, tokens, err = psParseBlock(tokens)
			if err != nil {
				return nil, nil, err
			}
			procs = append(procs, proc)

		case "if":
			if len(procs) != 1 {
				return nil, nil, fmt.Errorf("'if' needs one procedure")
			}
			body = append(body, psInstr{op: opIf, proc1: procs[0]})
			procs = nil

		case "ifelse":
			if len(procs) != 2 {
				return nil, nil, fmt.Errorf("'ifelse' needs two procedures")
			}
			body = append(body, psInstr{op: opIfElse, proc1: procs[0], proc2: procs[1]})
			procs = nil

		default:
			if err := flushProcs(); err != nil {
				return nil, nil, err
			}
			if op, ok := psOps[strings.ToLower(tok)]; ok {
				body = append(body, psInstr{op: op})
			} else if v, err := strconv.ParseFloat(tok, 64); err == nil {
				body = append(body, psInstr{op: opPush, val: v})
			} else {
				return nil, nil, fmt.Errorf("unknown operator %q", tok)
			}
		}
	}
	return nil, nil, fmt.Errorf("missing '}'")
}

// psExecute runs the instruction list on the given stack and returns
// the resulting stack.
func psExecute(body []psInstr, stack []float64) ([]float64, error) {
	pop := func() (float64, error) {
		if len(stack) == 0 {
			return 0, fmt.Errorf("stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	pop2 := func() (float64, float64, error) {
		b, err := pop()
		if err != nil {
			return 0, 0, err
		}
		a, err := pop()
		return a, b, err
	}
	push := func(v float64) error {
		if len(stack) >= psStackLimit {
			return fmt.Errorf("stack overflow")
		}
		stack = append(stack, v)
		return nil
	}
	pushBool := func(b bool) error {
		if b {
			return push(1)
		}
		return push(0)
	}

	var err error
	for _, in := range body {
		switch in.op {
		case opPush:
			err = push(in.val)

		case opAdd:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(a + b)
			}
		case opSub:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(a - b)
			}
		case opMul:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(a * b)
			}
		case opDiv:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				if b == 0 {
					err = fmt.Errorf("division by zero")
				} else {
					err = push(a / b)
				}
			}
		case opIdiv:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				if int(b) == 0 {
					err = fmt.Errorf("division by zero")
				} else {
					err = push(float64(int(a) / int(b)))
				}
			}
		case opMod:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				if int(b) == 0 {
					err = fmt.Errorf("division by zero")
				} else {
					err = push(float64(int(a) % int(b)))
				}
			}
		case opNeg:
			var a float64
			if a, err = pop(); err == nil {
				err = push(-a)
			}
		case opAbs:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Abs(a))
			}
		case opCeiling:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Ceil(a))
			}
		case opFloor:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Floor(a))
			}
		case opRound:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Round(a))
			}
		case opTruncate:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Trunc(a))
			}
		case opSqrt:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Sqrt(a))
			}
		case opSin:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Sin(a * math.Pi / 180))
			}
		case opCos:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Cos(a * math.Pi / 180))
			}
		case opAtan:
			var num, den float64
			if num, den, err = pop2(); err == nil {
				deg := math.Atan2(num, den) * 180 / math.Pi
				if deg < 0 {
					deg += 360
				}
				err = push(deg)
			}
		case opExp:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(math.Pow(a, b))
			}
		case opLn:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Log(a))
			}
		case opLog:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Log10(a))
			}
		case opCvi:
			var a float64
			if a, err = pop(); err == nil {
				err = push(math.Trunc(a))
			}
		case opCvr:
			var a float64
			if a, err = pop(); err == nil {
				err = push(a)
			}

		case opEq:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = pushBool(a == b)
			}
		case opNe:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = pushBool(a != b)
			}
		case opGt:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = pushBool(a > b)
			}
		case opGe:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = pushBool(a >= b)
			}
		case opLt:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = pushBool(a < b)
			}
		case opLe:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = pushBool(a <= b)
			}
		case opAnd:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(float64(int(a) & int(b)))
			}
		case opOr:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(float64(int(a) | int(b)))
			}
		case opXor:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				err = push(float64(int(a) ^ int(b)))
			}
		case opNot:
			var a float64
			if a, err = pop(); err == nil {
				// logical not for booleans, bitwise for integers
				if a == 0 {
					err = push(1)
				} else if a == 1 {
					err = push(0)
				} else {
					err = push(float64(^int(a)))
				}
			}
		case opBitshift:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				shift := int(b)
				if shift >= 0 {
					err = push(float64(int(a) << shift))
				} else {
					err = push(float64(int(a) >> -shift))
				}
			}
		case opTrue:
			err = push(1)
		case opFalse:
			err = push(0)

		case opPop:
			_, err = pop()
		case opExch:
			var a, b float64
			if a, b, err = pop2(); err == nil {
				if err = push(b); err == nil {
					err = push(a)
				}
			}
		case opDup:
			if len(stack) == 0 {
				err = fmt.Errorf("stack underflow")
			} else {
				err = push(stack[len(stack)-1])
			}
		case opCopy:
			var cnt float64
			if cnt, err = pop(); err == nil {
				k := int(cnt)
				if k < 0 || k > len(stack) {
					err = fmt.Errorf("invalid copy count %d", k)
					break
				}
				vals := stack[len(stack)-k:]
				for _, v := range vals[:k:k] {
					if err = push(v); err != nil {
						break
					}
				}
			}
		case opIndex:
			var idx float64
			if idx, err = pop(); err == nil {
				k := int(idx)
				if k < 0 || k >= len(stack) {
					err = fmt.Errorf("invalid index %d", k)
				} else {
					err = push(stack[len(stack)-1-k])
				}
			}
		case opRoll:
			var cnt, shift float64
			if cnt, shift, err = pop2(); err == nil {
				k := int(cnt)
				if k < 0 || k > len(stack) {
					err = fmt.Errorf("invalid roll count %d", k)
					break
				}
				if k > 0 {
					j := int(shift) % k
					if j < 0 {
						j += k
					}
					part := stack[len(stack)-k:]
					rolled := make([]float64, k)
					for i, v := range part {
						rolled[(i+j)%k] = v
					}
					copy(part, rolled)
				}
			}

		case opIf:
			var cond float64
			if cond, err = pop(); err == nil && cond != 0 {
				stack, err = psExecute(in.proc1, stack)
			}
		case opIfElse:
			var cond float64
			if cond, err = pop(); err == nil {
				if cond != 0 {
					stack, err = psExecute(in.proc1, stack)
				} else {
					stack, err = psExecute(in.proc2, stack)
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return stack, nil
}
