package internal

import "fmt"

// Binary arithmetic commands pop the topmost element y and the second topmost element x,
// combine them and push the result. Take add as an example:
// @SP
// AM=M-1
// D=M     // D = y
// @SP
// AM=M-1  // M = x
// M=D+M   // x = y + x
// @SP
// M=M+1
// sub computes x-y with M=M-D since y was popped first.

var binaryOperators = map[string]string{
	"add": "+",
	"and": "&",
	"or":  "|",
}

func popTwoOperands() []string {
	return []string{"@SP", "AM=M-1", "D=M", "@SP", "AM=M-1"}
}

func incSP() []string {
	return []string{"@SP", "M=M+1"}
}

// isBinaryArithmetic reports whether writeBinaryArithmetic handles the mnemonic.
func isBinaryArithmetic(mnemonic string) bool {
	_, ok := binaryOperators[mnemonic]
	return ok || mnemonic == "sub"
}

func writeBinaryArithmetic(mnemonic string) ([]string, error) {
	var compute string
	if mnemonic == "sub" {
		compute = "M=M-D"
	} else {
		op, ok := binaryOperators[mnemonic]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a binary arithmetic command", ErrInvalidOperand, mnemonic)
		}
		compute = "M=D" + op + "M"
	}
	code := popTwoOperands()
	code = append(code, compute)
	return append(code, incSP()...), nil
}
