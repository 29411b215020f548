package hack

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"hackvm/util"
)

// A two pass assembler for hack assembler code. The first pass records the
// instruction address of every (label); the second pass encodes A and C
// instructions, resolving @symbol to a predefined register, a label, or a
// variable allocated from RAM[16] in order of first use.

var predefinedSymbols = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

func init() {
	for i := 0; i < 16; i++ {
		predefinedSymbols["R"+strconv.Itoa(i)] = uint16(i)
	}
}

const (
	variableBase = 16
	maxConstant  = 1<<15 - 1
)

// compCodes are the a,c1..c6 bits of a C instruction.
var compCodes = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"A+D": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"A&D": 0b0000000,
	"D|A": 0b0010101,
	"A|D": 0b0010101,
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"M+D": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"M&D": 0b1000000,
	"D|M": 0b1010101,
	"M|D": 0b1010101,
}

var destCodes = map[string]uint16{
	"M":   0b001,
	"D":   0b010,
	"MD":  0b011,
	"DM":  0b011,
	"A":   0b100,
	"AM":  0b101,
	"MA":  0b101,
	"AD":  0b110,
	"DA":  0b110,
	"AMD": 0b111,
	"ADM": 0b111,
}

var jumpCodes = map[string]uint16{
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

var ErrSyntax = errors.New("syntax error")

type sourceLine struct {
	text []byte
	line int
}

type assembler struct {
	labels    map[string]uint16
	variables map[string]uint16
	lines     []sourceLine
}

// Assemble translates hack assembler code to machine instructions.
func Assemble(rd io.Reader) ([]uint16, error) {
	asm := &assembler{labels: map[string]uint16{}, variables: map[string]uint16{}}
	if err := asm.collectLabels(rd); err != nil {
		return nil, err
	}
	program := make([]uint16, 0, len(asm.lines))
	for _, l := range asm.lines {
		code, err := asm.encode(l)
		if err != nil {
			return nil, err
		}
		program = append(program, code)
	}
	return program, nil
}

// collectLabels is the first pass, it keeps instruction lines for the second pass.
func (asm *assembler) collectLabels(rd io.Reader) error {
	reader := bufio.NewReader(rd)
	lineNo := 0
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if len(line) == 0 && err == io.EOF {
			return nil
		}
		lineNo++
		line, ok := trimLine(line)
		if ok {
			if line[0] == '(' {
				if labelErr := asm.defineLabel(line, lineNo); labelErr != nil {
					return labelErr
				}
			} else {
				asm.lines = append(asm.lines, sourceLine{text: line, line: lineNo})
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// trimLine removes comments and space, then returns whether the line has other characters.
func trimLine(line []byte) ([]byte, bool) {
	if index := bytes.Index(line, []byte("//")); index != -1 {
		line = line[:index]
	}
	line = bytes.TrimSpace(line)
	return line, len(line) > 0
}

func (asm *assembler) defineLabel(line []byte, lineNo int) error {
	if line[len(line)-1] != ')' {
		return makeSyntaxErr(lineNo, "wrong label format")
	}
	label := string(line[1 : len(line)-1])
	if !util.IsSymbol(label) {
		return makeSyntaxErr(lineNo, "wrong label format")
	}
	if _, exist := asm.labels[label]; exist {
		return makeSyntaxErr(lineNo, "found duplicate label "+label)
	}
	asm.labels[label] = uint16(len(asm.lines))
	return nil
}

func (asm *assembler) encode(l sourceLine) (uint16, error) {
	if l.text[0] == '@' {
		return asm.encodeA(l)
	}
	return encodeC(l)
}

// encodeA encodes @decimal, @predefined, @label and @variable.
func (asm *assembler) encodeA(l sourceLine) (uint16, error) {
	symbol := string(l.text[1:])
	if util.IsDecimal(symbol) {
		value, err := strconv.Atoi(symbol)
		if err != nil || value > maxConstant {
			return 0, makeSyntaxErr(l.line, "constant out of range "+symbol)
		}
		return uint16(value), nil
	}
	if !util.IsSymbol(symbol) {
		return 0, makeSyntaxErr(l.line, "wrong variable or label format")
	}
	if addr, exist := predefinedSymbols[symbol]; exist {
		return addr, nil
	}
	if addr, exist := asm.labels[symbol]; exist {
		return addr, nil
	}
	addr, exist := asm.variables[symbol]
	if !exist {
		addr = uint16(variableBase + len(asm.variables))
		asm.variables[symbol] = addr
	}
	return addr, nil
}

// encodeC encodes dest=comp;jump where dest and jump are optional.
func encodeC(l sourceLine) (uint16, error) {
	text := l.text
	var dest, jump uint16
	if index := bytes.IndexByte(text, '='); index != -1 {
		code, exist := destCodes[string(text[:index])]
		if !exist {
			return 0, makeSyntaxErr(l.line, "wrong dest near "+string(text))
		}
		dest = code
		text = text[index+1:]
	}
	if index := bytes.IndexByte(text, ';'); index != -1 {
		code, exist := jumpCodes[string(text[index+1:])]
		if !exist {
			return 0, makeSyntaxErr(l.line, "wrong jump near "+string(l.text))
		}
		jump = code
		text = text[:index]
	}
	comp, exist := compCodes[string(text)]
	if !exist {
		return 0, makeSyntaxErr(l.line, "wrong comp near "+string(l.text))
	}
	return 0b111<<13 | comp<<6 | dest<<3 | jump, nil
}

func makeSyntaxErr(line int, msg string) error {
	return fmt.Errorf("%w at line %d: %s", ErrSyntax, line, msg)
}
