package internal

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Options tunes the generated code. None of them changes what the code computes.
type Options struct {
	// Comments echoes every vm command as a comment before its code.
	Comments bool `yaml:"comments"`
	// ScopeLabels prefixes label, goto and if-goto names with the enclosing function name.
	ScopeLabels bool `yaml:"scope_labels"`
}

func DefaultOptions() Options {
	return Options{Comments: true}
}

// LineWriter receives the generated code, one block of lines per vm command,
// in the order the commands are translated.
type LineWriter interface {
	WriteLines(lines []string) error
}

const (
	sourceExt = ".vm"
	endLabel  = "END"
	// The number of cells a call pushes besides the arguments: the return address
	// and the saved LCL, ARG, THIS, THAT.
	frameSize = 5
)

// unaryOperators work on the topmost element in place.
var unaryOperators = map[string]string{
	"neg": "-",
	"not": "!",
}

// CodeWriter translates vm commands to hack assembler code. A CodeWriter lives
// as long as its output: all input files written to the same output share its
// label counters, and SetFileName switches the static namespace between them.
type CodeWriter struct {
	out             LineWriter
	opts            Options
	staticNamespace string
	currentFunction string
	callCounter     int
	comparison      comparisonWriter
	lines           int
	closed          bool
}

func NewCodeWriter(out LineWriter, opts Options) *CodeWriter {
	return &CodeWriter{out: out, opts: opts}
}

// StaticNamespace returns the prefix of static variables for the given vm file:
// its base name without the .vm extension.
func StaticNamespace(path string) string {
	return strings.TrimSuffix(filepath.Base(path), sourceExt)
}

// SetFileName tells the writer that the commands which follow come from the given file.
func (cw *CodeWriter) SetFileName(path string) {
	cw.staticNamespace = StaticNamespace(path)
	cw.currentFunction = ""
}

// Lines returns how many lines have been written so far.
func (cw *CodeWriter) Lines() int {
	return cw.lines
}

func (cw *CodeWriter) write(comment string, code []string) error {
	if cw.closed {
		return ErrClosed
	}
	lines := code
	if cw.opts.Comments && comment != "" {
		lines = append([]string{"// " + comment}, code...)
	}
	if err := cw.out.WriteLines(lines); err != nil {
		return err
	}
	cw.lines += len(lines)
	return nil
}

// WriteArithmetic writes the code of an arithmetic or logical command.
func (cw *CodeWriter) WriteArithmetic(mnemonic string) error {
	var (
		code []string
		err  error
	)
	switch {
	case isBinaryArithmetic(mnemonic):
		code, err = writeBinaryArithmetic(mnemonic)
	case isComparison(mnemonic):
		code, err = cw.comparison.write(mnemonic)
	default:
		op, ok := unaryOperators[mnemonic]
		if !ok {
			return fmt.Errorf("%w: %s is not an arithmetic command", ErrInvalidOperand, mnemonic)
		}
		code = []string{"@SP", "A=M-1", "M=" + op + "M"}
	}
	if err != nil {
		return err
	}
	return cw.write(mnemonic, code)
}

// WritePushPop writes push segment index or pop segment index. Segments are
// addressed in four ways:
// * constant: the index itself, push only.
// * pointer: index 0 is THIS and index 1 is THAT.
// * static: a variable named namespace.index.
// * argument, local, this, that: base register + index. temp: 5 + index.
func (cw *CodeWriter) WritePushPop(tp CommandType, segment string, index int) error {
	if tp != Push && tp != Pop {
		return fmt.Errorf("%w: %s is not push or pop", ErrInvalidOperand, tp)
	}
	seg, ok := LookupSegment(segment)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSegment, segment)
	}
	if index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidOperand, index)
	}
	var (
		code []string
		err  error
	)
	if tp == Push {
		code, err = cw.pushCode(seg, index)
	} else {
		code, err = cw.popCode(seg, index)
	}
	if err != nil {
		return err
	}
	return cw.write(fmt.Sprintf("%s %s %d", tp, segment, index), code)
}

// pushCode loads the cell into D, then pushes D:
// // push local 2
// @2
// D=A
// @LCL
// A=D+M
// D=M
// @SP
// A=M
// M=D
// @SP
// M=M+1
func (cw *CodeWriter) pushCode(seg Segment, index int) ([]string, error) {
	var code []string
	switch seg {
	case Constant:
		code = []string{"@" + strconv.Itoa(index), "D=A"}
	case Pointer:
		cell, err := pointerCell(index)
		if err != nil {
			return nil, err
		}
		code = []string{"@" + cell, "D=M"}
	case Static:
		code = []string{"@" + cw.staticSymbol(index), "D=M"}
	case Temp:
		code = []string{"@" + strconv.Itoa(tempBase+index), "D=M"}
	default:
		code = []string{"@" + strconv.Itoa(index), "D=A", "@" + segmentBase[seg], "A=D+M", "D=M"}
	}
	return append(code, pushD()...), nil
}

// popCode pops the topmost element into the cell. For base+offset segments the
// address is computed first and kept in R13:
// // pop local 2
// @2
// D=A
// @LCL
// D=D+M
// @R13
// M=D
// @SP
// AM=M-1
// D=M
// @R13
// A=M
// M=D
func (cw *CodeWriter) popCode(seg Segment, index int) ([]string, error) {
	switch seg {
	case Constant:
		return nil, fmt.Errorf("%w: pop constant %d", ErrInvalidSegmentOp, index)
	case Pointer:
		cell, err := pointerCell(index)
		if err != nil {
			return nil, err
		}
		return append(popD(), "@"+cell, "M=D"), nil
	case Static:
		return append(popD(), "@"+cw.staticSymbol(index), "M=D"), nil
	case Temp:
		return append(popD(), "@"+strconv.Itoa(tempBase+index), "M=D"), nil
	}
	code := []string{"@" + strconv.Itoa(index), "D=A", "@" + segmentBase[seg], "D=D+M", "@R13", "M=D"}
	code = append(code, popD()...)
	return append(code, "@R13", "A=M", "M=D"), nil
}

func pointerCell(index int) (string, error) {
	if index >= len(pointerCells) {
		return "", fmt.Errorf("%w: pointer %d", ErrInvalidSegmentOp, index)
	}
	return pointerCells[index], nil
}

func (cw *CodeWriter) staticSymbol(index int) string {
	return cw.staticNamespace + "." + strconv.Itoa(index)
}

// popD pops the topmost element into D.
func popD() []string {
	return []string{"@SP", "AM=M-1", "D=M"}
}

func (cw *CodeWriter) labelName(name string) string {
	if cw.opts.ScopeLabels && cw.currentFunction != "" {
		return cw.currentFunction + "$" + name
	}
	return name
}

func (cw *CodeWriter) WriteLabel(name string) error {
	return cw.write("label "+name, []string{"(" + cw.labelName(name) + ")"})
}

func (cw *CodeWriter) WriteGoto(name string) error {
	return cw.write("goto "+name, []string{"@" + cw.labelName(name), "0;JMP"})
}

// WriteIf pops the topmost element and jumps to the label if it's not zero.
func (cw *CodeWriter) WriteIf(name string) error {
	code := append(popD(), "@"+cw.labelName(name), "D;JNE")
	return cw.write("if-goto "+name, code)
}

// WriteFunction declares function name and pushes 0 for each of its nLocals local variables.
func (cw *CodeWriter) WriteFunction(name string, nLocals int) error {
	if nLocals < 0 {
		return fmt.Errorf("%w: negative local count %d", ErrInvalidOperand, nLocals)
	}
	cw.currentFunction = name
	code := []string{"(" + name + ")"}
	for i := 0; i < nLocals; i++ {
		pushZero, err := cw.pushCode(Constant, 0)
		if err != nil {
			return err
		}
		code = append(code, pushZero...)
	}
	return cw.write(fmt.Sprintf("function %s %d", name, nLocals), code)
}

// returnLabel returns a label unique to this call site.
func (cw *CodeWriter) returnLabel() string {
	scope := cw.currentFunction
	if scope == "" {
		scope = cw.staticNamespace
	}
	label := fmt.Sprintf("%s$ret.%d", scope, cw.callCounter)
	cw.callCounter++
	return label
}

// WriteCall calls function name after nArgs arguments have been pushed:
// push return-address, LCL, ARG, THIS, THAT
// ARG = SP - 5 - nArgs
// LCL = SP
// goto name
// (return-address)
func (cw *CodeWriter) WriteCall(name string, nArgs int) error {
	if nArgs < 0 {
		return fmt.Errorf("%w: negative argument count %d", ErrInvalidOperand, nArgs)
	}
	ret := cw.returnLabel()
	code := append([]string{"@" + ret, "D=A"}, pushD()...)
	for _, register := range []string{"LCL", "ARG", "THIS", "THAT"} {
		code = append(code, "@"+register, "D=M")
		code = append(code, pushD()...)
	}
	code = append(code,
		"@SP", "D=M", "@"+strconv.Itoa(frameSize), "D=D-A", "@"+strconv.Itoa(nArgs), "D=D-A", "@ARG", "M=D",
		"@SP", "D=M", "@LCL", "M=D",
		"@"+name, "0;JMP",
		"("+ret+")",
	)
	return cw.write(fmt.Sprintf("call %s %d", name, nArgs), code)
}

// WriteReturn returns to the caller. The frame (LCL) is kept in R13 and the
// return address in R14:
// frame = LCL
// retAddr = *(frame-5)
// *ARG = pop()
// SP = ARG+1
// THAT = *(frame-1), THIS = *(frame-2), ARG = *(frame-3), LCL = *(frame-4)
// goto retAddr
// The return address is read before *ARG is overwritten since they are the
// same cell when the callee takes no argument.
func (cw *CodeWriter) WriteReturn() error {
	code := []string{
		"@LCL", "D=M", "@R13", "M=D",
		"@" + strconv.Itoa(frameSize), "A=D-A", "D=M", "@R14", "M=D",
	}
	code = append(code, popD()...)
	code = append(code, "@ARG", "A=M", "M=D", "@ARG", "D=M+1", "@SP", "M=D")
	for offset, register := range []string{"THAT", "THIS", "ARG", "LCL"} {
		code = append(code, "@R13", "D=M", "@"+strconv.Itoa(offset+1), "A=D-A", "D=M", "@"+register, "M=D")
	}
	code = append(code, "@R14", "A=M", "0;JMP")
	return cw.write("return", code)
}

// Close ends the program with an infinite loop. It writes nothing the second time.
func (cw *CodeWriter) Close() error {
	if cw.closed {
		return nil
	}
	if err := cw.write("end", []string{"(" + endLabel + ")", "@" + endLabel, "0;JMP"}); err != nil {
		return err
	}
	cw.closed = true
	return nil
}
