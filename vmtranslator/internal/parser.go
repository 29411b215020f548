package internal

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"hackvm/util"
)

// Parser reads vm commands from a source one line at a time. It is a one pass
// parser: once Next returns io.EOF or an error the parser is done.
type Parser struct {
	reader *bufio.Reader
	line   int
	done   bool
}

func NewParser(rd io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(rd)}
}

// Next returns the next instruction of the source, skipping blank lines and
// comments. It returns io.EOF when the source is exhausted and a *SyntaxError
// for a line which is not a well formed command.
func (p *Parser) Next() (*Instruction, error) {
	for !p.done {
		line, err := p.reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			p.done = true
			return nil, err
		}
		if err == io.EOF {
			p.done = true
			// The last line may not end with a newline.
			if len(line) == 0 {
				break
			}
		}
		p.line++
		line, hasRemainCharacter := trimLine(line)
		if !hasRemainCharacter {
			continue
		}
		inst, err := p.parseLine(line)
		if err != nil {
			p.done = true
			return nil, err
		}
		return inst, nil
	}
	return nil, io.EOF
}

// trimLine removes the trailing comment and surrounding space of a line, then
// returns whether something is left.
func trimLine(line []byte) ([]byte, bool) {
	if index := bytes.Index(line, []byte("//")); index != -1 {
		line = line[:index]
	}
	line = bytes.TrimSpace(line)
	return line, len(line) > 0
}

func (p *Parser) parseLine(line []byte) (*Instruction, error) {
	tokens := bytes.Fields(line)
	mnemonic := string(tokens[0])
	tp, ok := LookupCommand(mnemonic)
	if !ok {
		return nil, p.makeError(mnemonic, ErrUnknownCommand)
	}
	operands := tokens[1:]
	if len(operands) != tp.operandCount() {
		return nil, p.makeError(string(line), ErrInvalidOperand)
	}
	inst := &Instruction{Type: tp, Line: p.line, Text: joinTokens(tokens)}
	switch tp {
	case Arithmetic:
		inst.arg1 = mnemonic
	case Return:
	default:
		inst.arg1 = string(operands[0])
	}
	if tp == Label || tp == Goto || tp == IfGoto || tp == Function || tp == Call {
		if !util.IsSymbol(inst.arg1) {
			return nil, p.makeError(inst.arg1, ErrInvalidOperand)
		}
	}
	if tp.hasArg2() {
		value, err := p.parseIndex(string(operands[1]))
		if err != nil {
			return nil, err
		}
		inst.arg2 = value
	}
	return inst, nil
}

// parseIndex parses a segment index or a variable/argument count.
func (p *Parser) parseIndex(token string) (int, error) {
	if !util.IsDecimal(token) {
		return 0, p.makeError(token, ErrInvalidOperand)
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, p.makeError(token, ErrInvalidOperand)
	}
	return value, nil
}

func joinTokens(tokens [][]byte) string {
	return string(bytes.Join(tokens, []byte(" ")))
}

func (p *Parser) makeError(near string, err error) error {
	return &SyntaxError{Line: p.line, Near: near, Err: err}
}
