package internal_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	vm "hackvm/vmtranslator/internal"
)

var _ = Describe("Batch", func() {
	var dir string

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "Prog")
		Expect(os.Mkdir(dir, 0o755)).To(Succeed())
	})

	It("should resolve a directory to its sorted vm files", func() {
		b := writeFile("B.vm", "")
		a := writeFile("A.vm", "")
		writeFile("notes.txt", "")
		writeFile("sub/C.vm", "")

		batch, err := vm.ResolveBatch(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Sources).To(Equal([]string{a, b}))
		Expect(batch.Output).To(Equal(filepath.Join(dir, "Prog.asm")))
	})

	It("should resolve a directory given with a trailing separator", func() {
		writeFile("A.vm", "")

		batch, err := vm.ResolveBatch(dir + string(filepath.Separator))

		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Output).To(Equal(filepath.Join(dir, "Prog.asm")))
	})

	It("should resolve a single file next to its output", func() {
		path := writeFile("Simple.vm", "")

		batch, err := vm.ResolveBatch(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Sources).To(Equal([]string{path}))
		Expect(batch.Output).To(Equal(filepath.Join(dir, "Simple.asm")))
	})

	It("should reject inputs without vm sources", func() {
		_, err := vm.ResolveBatch(writeFile("Simple.asm", ""))
		Expect(err).To(MatchError(vm.ErrNotVMFile))

		_, err = vm.ResolveBatch(dir)
		Expect(err).To(MatchError(vm.ErrNoSources))

		_, err = vm.ResolveBatch(filepath.Join(dir, "missing"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("should translate every file into one output in name order", func() {
		writeFile("B.vm", "push constant 2\npop static 0\n")
		writeFile("A.vm", "push constant 1\npop static 0\n")
		batch, err := vm.ResolveBatch(dir)
		Expect(err).NotTo(HaveOccurred())
		out, err := vm.CreateFileWriter(batch.Output)
		Expect(err).NotTo(HaveOccurred())

		stats, err := vm.TranslateBatch(batch, vm.NewTranslator(out, vm.DefaultOptions(), nil), vm.OpenFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Close()).To(Succeed())

		Expect(stats).To(HaveLen(2))
		Expect(stats[0].Name).To(HaveSuffix("A.vm"))
		Expect(stats[1].Name).To(HaveSuffix("B.vm"))
		content, err := os.ReadFile(batch.Output)
		Expect(err).NotTo(HaveOccurred())
		text := string(content)
		Expect(strings.Index(text, "@A.0")).To(BeNumerically("<", strings.Index(text, "@B.0")))
		Expect(strings.Index(text, "@A.0")).To(BeNumerically(">=", 0))
		Expect(text).To(HaveSuffix("(END)\n@END\n0;JMP\n"))
		Expect(strings.Count(text, "(END)")).To(Equal(1))
	})

	It("should stop at the first failing unit", func() {
		writeFile("A.vm", "bogus\n")
		writeFile("B.vm", "push constant 1\n")
		batch, err := vm.ResolveBatch(dir)
		Expect(err).NotTo(HaveOccurred())
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()
		var opened []string
		open := func(path string) (io.ReadCloser, error) {
			opened = append(opened, filepath.Base(path))
			return vm.OpenFile(path)
		}

		_, err = vm.TranslateBatch(batch, vm.NewTranslator(NewMockLineWriter(mockCtrl), vm.Options{}, nil), open)

		Expect(err).To(MatchError(vm.ErrUnknownCommand))
		Expect(opened).To(Equal([]string{"A.vm"}))
	})

	It("should propagate open failures", func() {
		writeFile("A.vm", "push constant 1\n")
		batch, err := vm.ResolveBatch(dir)
		Expect(err).NotTo(HaveOccurred())
		errBoom := errors.New("permission denied")
		open := func(string) (io.ReadCloser, error) { return nil, errBoom }

		_, err = vm.TranslateBatch(batch, vm.NewTranslator(vm.NewStreamWriter(io.Discard), vm.Options{}, nil), open)

		Expect(err).To(MatchError(errBoom))
	})
})
