package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// UnitStats summarizes the translation of one input unit.
type UnitStats struct {
	Name         string
	Instructions int
	Lines        int
}

// Translator translates one or more input units into a single output. Units
// must be translated one after another; they share the label counters and the
// output of the underlying CodeWriter.
type Translator struct {
	writer *CodeWriter
	logger *slog.Logger
	// Observe, when set, is called with every instruction before it's translated.
	Observe func(unit string, inst *Instruction)
}

func NewTranslator(out LineWriter, opts Options, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{writer: NewCodeWriter(out, opts), logger: logger}
}

// TranslateUnit translates the vm commands read from rd. name is the file name of
// the unit, it decides the namespace of static variables. Translation stops at the
// first error, nothing of the failed command nor of the commands after it is written.
func (t *Translator) TranslateUnit(name string, rd io.Reader) (UnitStats, error) {
	stats := UnitStats{Name: name}
	startLines := t.writer.Lines()
	t.writer.SetFileName(name)
	t.logger.Debug("translating unit", "unit", name, "namespace", StaticNamespace(name))
	parser := NewParser(rd)
	for {
		inst, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err == nil {
			if t.Observe != nil {
				t.Observe(name, inst)
			}
			err = t.dispatch(inst)
		}
		if err != nil {
			stats.Lines = t.writer.Lines() - startLines
			return stats, unitError(name, inst, err)
		}
		stats.Instructions++
	}
	stats.Lines = t.writer.Lines() - startLines
	t.logger.Debug("translated unit", "unit", name, "instructions", stats.Instructions, "lines", stats.Lines)
	return stats, nil
}

// Close ends the program. It must be called once every unit has been translated.
func (t *Translator) Close() error {
	return t.writer.Close()
}

func (t *Translator) dispatch(inst *Instruction) error {
	if inst.Type == Return {
		return t.writer.WriteReturn()
	}
	arg1, err := inst.Arg1()
	if err != nil {
		return err
	}
	switch inst.Type {
	case Arithmetic:
		return t.writer.WriteArithmetic(arg1)
	case Label:
		return t.writer.WriteLabel(arg1)
	case Goto:
		return t.writer.WriteGoto(arg1)
	case IfGoto:
		return t.writer.WriteIf(arg1)
	}
	arg2, err := inst.Arg2()
	if err != nil {
		return err
	}
	switch inst.Type {
	case Push, Pop:
		return t.writer.WritePushPop(inst.Type, arg1, arg2)
	case Function:
		return t.writer.WriteFunction(arg1, arg2)
	case Call:
		return t.writer.WriteCall(arg1, arg2)
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, inst.Type)
}

// unitError names the unit and, for code generation errors, the offending line.
func unitError(name string, inst *Instruction, err error) error {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		syntaxErr.Unit = name
		return syntaxErr
	}
	if inst != nil && (errors.Is(err, ErrInvalidOperand) || errors.Is(err, ErrUnknownSegment) ||
		errors.Is(err, ErrInvalidSegmentOp)) {
		return &SyntaxError{Unit: name, Line: inst.Line, Near: inst.Text, Err: err}
	}
	return fmt.Errorf("translate %s: %w", name, err)
}
