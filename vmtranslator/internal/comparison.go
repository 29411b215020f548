package internal

import (
	"fmt"
	"strings"
)

var comparisonJumps = map[string]string{
	"eq": "JEQ",
	"gt": "JGT",
	"lt": "JLT",
}

// comparisonWriter emits eq, gt and lt. Each comparison needs two labels which
// must be unique in the whole output, so the writer numbers them with a counter
// that lives as long as the output does.
type comparisonWriter struct {
	counter int
}

func isComparison(mnemonic string) bool {
	_, ok := comparisonJumps[mnemonic]
	return ok
}

// write returns the code for comparing x (second topmost) with y (topmost):
// @SP
// AM=M-1
// D=M        // D = y
// @SP
// AM=M-1
// D=M-D      // D = x - y
// @EQ_TRUE_n
// D;JEQ
// D=0
// @EQ_END_n
// 0;JMP
// (EQ_TRUE_n)
// D=-1
// (EQ_END_n)
// @SP
// A=M
// M=D
// @SP
// M=M+1
func (cw *comparisonWriter) write(mnemonic string) ([]string, error) {
	jump, ok := comparisonJumps[mnemonic]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a comparison command", ErrInvalidOperand, mnemonic)
	}
	id := cw.counter
	cw.counter++
	upper := strings.ToUpper(mnemonic)
	labelTrue := fmt.Sprintf("%s_TRUE_%d", upper, id)
	labelEnd := fmt.Sprintf("%s_END_%d", upper, id)
	code := popTwoOperands()
	code = append(code,
		"D=M-D",
		"@"+labelTrue,
		"D;"+jump,
		"D=0",
		"@"+labelEnd,
		"0;JMP",
		"("+labelTrue+")",
		"D=-1",
		"("+labelEnd+")",
	)
	return append(code, pushD()...), nil
}

// pushD pushes the D register onto the stack.
func pushD() []string {
	return []string{"@SP", "A=M", "M=D", "@SP", "M=M+1"}
}
