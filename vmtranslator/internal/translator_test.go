package internal_test

import (
	"errors"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	vm "hackvm/vmtranslator/internal"
)

var _ = Describe("Translator", func() {
	var (
		mockCtrl   *gomock.Controller
		writer     *MockLineWriter
		translator *vm.Translator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		writer = NewMockLineWriter(mockCtrl)
		translator = vm.NewTranslator(writer, vm.Options{}, nil)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write one block per instruction in order", func() {
		gomock.InOrder(
			writer.EXPECT().WriteLines([]string{"@7", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1"}),
			writer.EXPECT().WriteLines([]string{"@SP", "A=M-1", "M=-M"}),
		)

		stats, err := translator.TranslateUnit("Main.vm", strings.NewReader("push constant 7\n// skip\n\nneg\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(vm.UnitStats{Name: "Main.vm", Instructions: 2, Lines: 10}))
	})

	It("should echo instructions as comments", func() {
		translator = vm.NewTranslator(writer, vm.DefaultOptions(), nil)
		writer.EXPECT().WriteLines([]string{"// label LOOP", "(LOOP)"})

		_, err := translator.TranslateUnit("Main.vm", strings.NewReader("label   LOOP // start"))

		Expect(err).NotTo(HaveOccurred())
	})

	It("should stop at the first unknown command", func() {
		writer.EXPECT().WriteLines(gomock.Any()).Times(1)

		stats, err := translator.TranslateUnit("Main.vm",
			strings.NewReader("push constant 1\nfoo bar\npush constant 2"))

		Expect(err).To(MatchError(vm.ErrUnknownCommand))
		var syntaxErr *vm.SyntaxError
		Expect(errors.As(err, &syntaxErr)).To(BeTrue())
		Expect(syntaxErr.Unit).To(Equal("Main.vm"))
		Expect(syntaxErr.Line).To(Equal(2))
		Expect(syntaxErr.Near).To(Equal("foo"))
		Expect(stats.Instructions).To(Equal(1))
	})

	It("should report code generation errors with their line", func() {
		writer.EXPECT().WriteLines(gomock.Any()).Times(1)

		_, err := translator.TranslateUnit("Main.vm", strings.NewReader("push constant 1\npop constant 0\nadd"))

		Expect(err).To(MatchError(vm.ErrInvalidSegmentOp))
		var syntaxErr *vm.SyntaxError
		Expect(errors.As(err, &syntaxErr)).To(BeTrue())
		Expect(syntaxErr.Line).To(Equal(2))
		Expect(syntaxErr.Near).To(Equal("pop constant 0"))
	})

	It("should report unknown segments", func() {
		_, err := translator.TranslateUnit("Main.vm", strings.NewReader("push heap 0"))

		Expect(err).To(MatchError(vm.ErrUnknownSegment))
	})

	It("should propagate writer failures", func() {
		errBoom := errors.New("boom")
		writer.EXPECT().WriteLines(gomock.Any()).Return(errBoom)

		_, err := translator.TranslateUnit("Main.vm", strings.NewReader("push constant 1\npush constant 2"))

		Expect(err).To(MatchError(errBoom))
	})

	It("should keep label counters across units", func() {
		var lines []string
		writer.EXPECT().WriteLines(gomock.Any()).
			Do(func(block []string) { lines = append(lines, block...) }).
			AnyTimes()

		_, err := translator.TranslateUnit("A.vm", strings.NewReader("push constant 1\npush constant 2\neq\ncall B.f 0"))
		Expect(err).NotTo(HaveOccurred())
		_, err = translator.TranslateUnit("B.vm", strings.NewReader("function B.f 0\npush constant 1\npush constant 2\neq\ncall B.f 0"))
		Expect(err).NotTo(HaveOccurred())

		Expect(lines).To(ContainElements("(EQ_TRUE_0)", "(EQ_TRUE_1)", "(A$ret.0)", "(B.f$ret.1)"))
	})

	It("should end the program only once", func() {
		writer.EXPECT().WriteLines([]string{"(END)", "@END", "0;JMP"}).Times(1)

		Expect(translator.Close()).To(Succeed())
		Expect(translator.Close()).To(Succeed())
	})

	It("should let observers see every instruction", func() {
		writer.EXPECT().WriteLines(gomock.Any()).AnyTimes()
		var seen []string
		translator.Observe = func(unit string, inst *vm.Instruction) {
			seen = append(seen, unit+": "+inst.Text)
		}

		_, err := translator.TranslateUnit("Main.vm", strings.NewReader("push constant 1\nreturn"))

		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]string{"Main.vm: push constant 1", "Main.vm: return"}))
	})
})
