package api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/codegen"
	"github.com/sarchlab/hackvm/vm"
)

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Driver", func() {
	var (
		out    *bytes.Buffer
		driver Driver
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		driver = DriverBuilder{}.Build(out)
	})

	It("should translate commands in source order", func() {
		src := `// adds two constants
push constant 7
push constant 8   // second operand

add
`
		Expect(driver.TranslateFile("Add.vm", strings.NewReader(src))).To(Succeed())

		var want bytes.Buffer
		w := codegen.NewCodeWriter(&want)
		Expect(w.WritePushPop(vm.Push, "constant", 7)).To(Succeed())
		Expect(w.WritePushPop(vm.Push, "constant", 8)).To(Succeed())
		Expect(w.WriteArithmetic("add")).To(Succeed())

		Expect(out.String()).To(Equal(want.String()))
		Expect(driver.Commands()).To(Equal(3))
	})

	It("should skip program flow and function commands", func() {
		src := `label LOOP
push constant 1
goto LOOP
if LOOP
function Main.main 0
call Main.main 0
return
`
		Expect(driver.TranslateFile("Flow.vm", strings.NewReader(src))).To(Succeed())

		Expect(out.String()).To(Equal("@1\nD=A\n@SP\nA=M\nM=D\n@SP\nM=M+1\n"))
		Expect(driver.Commands()).To(Equal(1))
	})

	It("should report the file and line of a rejected command", func() {
		src := "push constant 1\n\npop constant 0\n"

		err := driver.TranslateFile("Bad.vm", strings.NewReader(src))

		Expect(err).To(MatchError(codegen.ErrNotPushPop))
		Expect(err.Error()).To(ContainSubstring("Bad.vm: line 3"))
	})

	It("should report malformed source", func() {
		err := driver.TranslateFile("Bad.vm", strings.NewReader("push local\n"))

		Expect(err).To(MatchError(vm.ErrMalformedCommand))
		Expect(err.Error()).To(ContainSubstring("Bad.vm"))
		Expect(out.Len()).To(BeZero())
	})

	It("should number comparisons across files", func() {
		Expect(driver.TranslateFile("A.vm", strings.NewReader("eq\n"))).To(Succeed())
		Expect(driver.TranslateFile("B.vm", strings.NewReader("lt\n"))).To(Succeed())

		Expect(out.String()).To(ContainSubstring("(FALSE0)"))
		Expect(out.String()).To(ContainSubstring("(FALSE1)"))
		Expect(driver.JumpCount()).To(Equal(2))
	})

	Context("with static symbols", func() {
		BeforeEach(func() {
			driver = DriverBuilder{}.
				WithStaticSymbols(true).
				WithAnnotations(true).
				Build(out)
		})

		It("should scope statics by file", func() {
			Expect(driver.TranslateFile("dir/Foo.vm",
				strings.NewReader("push static 2\n"))).To(Succeed())
			Expect(driver.TranslateFile("dir/Bar.vm",
				strings.NewReader("pop static 2\n"))).To(Succeed())

			Expect(out.String()).To(HavePrefix("// push static 2\n@Foo.2\n"))
			Expect(out.String()).To(ContainSubstring("// pop static 2\n@Bar.2\n"))
		})
	})

	Context("when the sink fails", func() {
		var (
			mockCtrl *gomock.Controller
			sink     *MockWriter
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			sink = NewMockWriter(mockCtrl)
			driver = DriverBuilder{}.Build(sink)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should stop at the first failed write", func() {
			closed := errors.New("closed pipe")
			sink.EXPECT().Write(gomock.Any()).Return(0, closed)

			err := driver.TranslateFile("Sink.vm",
				strings.NewReader("push constant 1\npush constant 2\n"))

			Expect(errors.Is(err, closed)).To(BeTrue())
			Expect(driver.Commands()).To(BeZero())
		})
	})

	Context("when translating paths", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should translate every .vm file of a directory in name order", func() {
			writeFile(dir, "B.vm", "push static 0\n")
			writeFile(dir, "A.vm", "push constant 3\n")
			writeFile(dir, "notes.txt", "push constant 9\n")

			driver = DriverBuilder{}.WithStaticSymbols(true).Build(out)
			Expect(driver.TranslatePath(dir)).To(Succeed())

			Expect(out.String()).To(HavePrefix("@3\nD=A\n"))
			Expect(out.String()).To(ContainSubstring("@B.0\nD=M\n"))
			Expect(out.String()).NotTo(ContainSubstring("@9"))
			Expect(driver.Commands()).To(Equal(2))
		})

		It("should keep the statics of different files apart", func() {
			writeFile(dir, "A.vm", "push constant 1\npop static 0\n")
			writeFile(dir, "B.vm", "push constant 2\npop static 0\n")

			Expect(driver.TranslatePath(dir)).To(Succeed())

			Expect(strings.Count(out.String(), "@16\n")).To(Equal(1))
			Expect(strings.Count(out.String(), "@17\n")).To(Equal(1))
		})

		It("should translate a single file", func() {
			path := writeFile(dir, "Neg.vm", "neg\n")

			Expect(driver.TranslatePath(path)).To(Succeed())
			Expect(out.String()).To(Equal("D=0\n@SP\nA=M-1\nM=D-M\n"))
		})

		It("should reject other files", func() {
			path := writeFile(dir, "Main.jack", "class Main {}\n")

			Expect(driver.TranslatePath(path)).To(MatchError(ErrNotVMFile))
		})

		It("should reject a directory without sources", func() {
			Expect(driver.TranslatePath(dir)).To(MatchError(ErrNotVMFile))
		})

		It("should fail on a missing path", func() {
			Expect(driver.TranslatePath(filepath.Join(dir, "none.vm"))).
				NotTo(Succeed())
		})
	})
})

var _ = Describe("OutputPath", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should replace the extension of a file", func() {
		path := writeFile(dir, "SimpleAdd.vm", "add\n")

		Expect(OutputPath(path)).To(Equal(filepath.Join(dir, "SimpleAdd.asm")))
	})

	It("should name the output after a directory", func() {
		sub := filepath.Join(dir, "StackTest")
		Expect(os.Mkdir(sub, 0o755)).To(Succeed())

		Expect(OutputPath(sub + "/")).
			To(Equal(filepath.Join(sub, "StackTest.asm")))
	})

	It("should reject other extensions", func() {
		path := writeFile(dir, "Prog.asm", "@0\n")

		_, err := OutputPath(path)
		Expect(err).To(MatchError(ErrNotVMFile))
	})
})
