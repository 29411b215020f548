package internal

import (
	"fmt"
)

// There are four kinds of vm commands, they are:
// * Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// * Memory access commands: push segment index, pop segment index.
// * Program flow commands: label name, goto name, if-goto name.
// * Function calling commands: function f k, call f n, return.

type CommandType int

const (
	Push CommandType = iota
	Pop
	Arithmetic
	Label
	Goto
	IfGoto
	Function
	Call
	Return
)

var commandTypeNames = [...]string{
	Push:       "push",
	Pop:        "pop",
	Arithmetic: "arithmetic",
	Label:      "label",
	Goto:       "goto",
	IfGoto:     "if-goto",
	Function:   "function",
	Call:       "call",
	Return:     "return",
}

func (tp CommandType) String() string {
	if tp < 0 || int(tp) >= len(commandTypeNames) {
		return fmt.Sprintf("CommandType(%d)", int(tp))
	}
	return commandTypeNames[tp]
}

// hasArg1 and hasArg2 decide which operands an instruction of this type carries.
func (tp CommandType) hasArg1() bool {
	return tp != Return
}

func (tp CommandType) hasArg2() bool {
	return tp == Push || tp == Pop || tp == Function || tp == Call
}

// operandCount is the number of tokens following the mnemonic.
func (tp CommandType) operandCount() int {
	switch {
	case tp.hasArg2():
		return 2
	case tp == Arithmetic || tp == Return:
		return 0
	default:
		return 1
	}
}

// commandTable maps every mnemonic to its command type.
var commandTable = map[string]CommandType{
	"push":     Push,
	"pop":      Pop,
	"add":      Arithmetic,
	"sub":      Arithmetic,
	"neg":      Arithmetic,
	"eq":       Arithmetic,
	"gt":       Arithmetic,
	"lt":       Arithmetic,
	"and":      Arithmetic,
	"or":       Arithmetic,
	"not":      Arithmetic,
	"label":    Label,
	"goto":     Goto,
	"if-goto":  IfGoto,
	"function": Function,
	"call":     Call,
	"return":   Return,
}

// LookupCommand returns the command type of a mnemonic.
func LookupCommand(mnemonic string) (CommandType, bool) {
	tp, ok := commandTable[mnemonic]
	return tp, ok
}

type Segment int

const (
	Constant Segment = iota
	Pointer
	Static
	Argument
	Local
	This
	That
	Temp
)

var segmentTable = map[string]Segment{
	"constant": Constant,
	"pointer":  Pointer,
	"static":   Static,
	"argument": Argument,
	"local":    Local,
	"this":     This,
	"that":     That,
	"temp":     Temp,
}

// LookupSegment returns the segment of a segment name used by push and pop.
func LookupSegment(name string) (Segment, bool) {
	seg, ok := segmentTable[name]
	return seg, ok
}

func (seg Segment) String() string {
	for name, s := range segmentTable {
		if s == seg {
			return name
		}
	}
	return fmt.Sprintf("Segment(%d)", int(seg))
}

// Base registers of the base+offset segments. temp has no base register, its
// cells live at a fixed address starting from tempBase.
var segmentBase = map[Segment]string{
	Argument: "ARG",
	Local:    "LCL",
	This:     "THIS",
	That:     "THAT",
}

const tempBase = 5

// pointer 0 aliases THIS and pointer 1 aliases THAT.
var pointerCells = [...]string{"THIS", "THAT"}

// Instruction is one classified vm command. Which operands it carries is fully
// determined by its type, see Arg1 and Arg2.
type Instruction struct {
	Type CommandType
	// Line is the 1-based line of the command in its source.
	Line int
	// Text is the command without comments and surrounding space.
	Text string
	arg1 string
	arg2 int
}

// Arg1 returns the arithmetic mnemonic for arithmetic commands and the segment,
// label or function name for the others. Return has no first operand.
func (inst *Instruction) Arg1() (string, error) {
	if !inst.Type.hasArg1() {
		return "", fmt.Errorf("%w: %s has no first operand", ErrInvalidOperand, inst.Type)
	}
	return inst.arg1, nil
}

// Arg2 returns the index or count operand of push, pop, function and call.
func (inst *Instruction) Arg2() (int, error) {
	if !inst.Type.hasArg2() {
		return 0, fmt.Errorf("%w: %s has no second operand", ErrInvalidOperand, inst.Type)
	}
	return inst.arg2, nil
}

func (inst *Instruction) String() string {
	return inst.Text
}
