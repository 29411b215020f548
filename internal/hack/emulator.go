package hack

import (
	"errors"
	"fmt"
)

const RAMSize = 1 << 15

var ErrStepLimit = errors.New("step limit reached before the program halted")

// CPU emulates the hack computer: a 16-bit CPU with an A and a D register,
// a read only instruction memory and a 32K word data memory.
type CPU struct {
	A, D   int16
	PC     uint16
	RAM    [RAMSize]int16
	ROM    []uint16
	Halted bool
	Steps  int
}

func NewCPU(rom []uint16) *CPU {
	return &CPU{ROM: rom}
}

// Step executes one instruction. Running past the end of the program or
// entering the two instruction loop "@L (L) 0;JMP" halts the CPU.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	if int(c.PC) >= len(c.ROM) {
		c.Halted = true
		return
	}
	pc := c.PC
	instr := c.ROM[pc]
	c.Steps++
	if instr&0x8000 == 0 {
		c.A = int16(instr)
		c.PC++
		return
	}
	a := instr >> 12 & 1
	comp := instr >> 6 & 0x3F
	dest := instr >> 3 & 0x7
	jump := instr & 0x7

	y := c.A
	if a == 1 {
		y = c.M()
	}
	out := alu(c.D, y, comp)
	addr := c.A
	if dest&0b001 != 0 {
		c.write(addr, out)
	}
	if dest&0b100 != 0 {
		c.A = out
	}
	if dest&0b010 != 0 {
		c.D = out
	}
	if jumps(out, jump) {
		c.PC = uint16(addr)
		// Jumping back to the @target right before this jump loops forever.
		if pc > 0 && c.PC == pc-1 && c.ROM[pc-1] == uint16(addr) {
			c.Halted = true
		}
		return
	}
	c.PC++
}

// Run steps until the program halts or maxSteps instructions have been executed.
func (c *CPU) Run(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if c.Halted {
			return nil
		}
		c.Step()
	}
	if c.Halted {
		return nil
	}
	return fmt.Errorf("%w: pc=%d", ErrStepLimit, c.PC)
}

// M returns RAM[A].
func (c *CPU) M() int16 {
	return c.RAM[uint16(c.A)%RAMSize]
}

func (c *CPU) write(addr int16, value int16) {
	c.RAM[uint16(addr)%RAMSize] = value
}

// alu computes the hack ALU function selected by the c1..c6 bits: zx nx zy ny f no.
func alu(x, y int16, comp uint16) int16 {
	if comp&0b100000 != 0 {
		x = 0
	}
	if comp&0b010000 != 0 {
		x = ^x
	}
	if comp&0b001000 != 0 {
		y = 0
	}
	if comp&0b000100 != 0 {
		y = ^y
	}
	var out int16
	if comp&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if comp&0b000001 != 0 {
		out = ^out
	}
	return out
}

func jumps(out int16, jump uint16) bool {
	return (jump&0b100 != 0 && out < 0) ||
		(jump&0b010 != 0 && out == 0) ||
		(jump&0b001 != 0 && out > 0)
}
