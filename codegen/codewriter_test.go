package codegen

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/vm"
)

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

var _ = Describe("CodeWriter", func() {
	var (
		out *bytes.Buffer
		w   *CodeWriter
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		w = NewCodeWriter(out)
	})

	Context("when writing arithmetic", func() {
		DescribeTable("binary operators",
			func(op, inst string) {
				Expect(w.WriteArithmetic(op)).To(Succeed())
				Expect(out.String()).To(Equal(lines(
					"@SP", "AM=M-1", "D=M", "A=A-1", inst)))
			},
			Entry("add", "add", "M=M+D"),
			Entry("sub", "sub", "M=M-D"),
			Entry("and", "and", "M=M&D"),
			Entry("or", "or", "M=M|D"),
		)

		It("should emit not in place", func() {
			Expect(w.WriteArithmetic("not")).To(Succeed())
			Expect(out.String()).To(Equal(lines("@SP", "A=M-1", "M=!M")))
		})

		It("should emit neg as zero minus the operand", func() {
			Expect(w.WriteArithmetic("neg")).To(Succeed())
			Expect(out.String()).To(Equal(lines("D=0", "@SP", "A=M-1", "M=D-M")))
		})

		DescribeTable("comparisons",
			func(op, jump string) {
				Expect(w.WriteArithmetic(op)).To(Succeed())
				Expect(out.String()).To(Equal(lines(
					"@SP", "AM=M-1", "D=M", "A=A-1",
					"D=M-D",
					"@FALSE0",
					"D;"+jump,
					"@SP", "A=M-1", "M=-1",
					"@CONTINUE0",
					"0;JMP",
					"(FALSE0)",
					"@SP", "A=M-1", "M=0",
					"(CONTINUE0)",
				)))
				Expect(w.JumpCount()).To(Equal(1))
			},
			Entry("eq", "eq", "JNE"),
			Entry("gt", "gt", "JLE"),
			Entry("lt", "lt", "JGE"),
		)

		It("should never reuse a label pair", func() {
			ops := []string{"eq", "gt", "eq", "lt", "eq"}
			for _, op := range ops {
				Expect(w.WriteArithmetic(op)).To(Succeed())
			}

			Expect(w.JumpCount()).To(Equal(len(ops)))
			for k := range ops {
				Expect(strings.Count(out.String(), "(FALSE"+strconv.Itoa(k)+")\n")).To(Equal(1))
				Expect(strings.Count(out.String(), "(CONTINUE"+strconv.Itoa(k)+")\n")).To(Equal(1))
			}
		})

		It("should not advance the counter for other operators", func() {
			for _, op := range []string{"add", "sub", "neg", "and", "or", "not"} {
				Expect(w.WriteArithmetic(op)).To(Succeed())
			}
			Expect(w.JumpCount()).To(Equal(0))
		})

		It("should keep label numbering per writer", func() {
			Expect(w.WriteArithmetic("eq")).To(Succeed())

			other := &bytes.Buffer{}
			w2 := NewCodeWriter(other)
			Expect(w2.WriteArithmetic("eq")).To(Succeed())

			Expect(other.String()).To(ContainSubstring("(FALSE0)"))
			Expect(w.JumpCount()).To(Equal(1))
			Expect(w2.JumpCount()).To(Equal(1))
		})

		DescribeTable("rejecting non-arithmetic names",
			func(op string) {
				err := w.WriteArithmetic(op)
				Expect(err).To(MatchError(ErrNotArithmetic))
				Expect(out.Len()).To(BeZero())
			},
			Entry("push", "push"),
			Entry("return", "return"),
			Entry("upper case", "ADD"),
			Entry("empty", ""),
		)
	})

	Context("when writing push", func() {
		pushD := []string{"@SP", "A=M", "M=D", "@SP", "M=M+1"}

		DescribeTable("segments",
			func(segment string, index int, load ...string) {
				Expect(w.WritePushPop(vm.Push, segment, index)).To(Succeed())
				Expect(out.String()).To(Equal(lines(append(load, pushD...)...)))
			},
			Entry("constant", "constant", 7, "@7", "D=A"),
			Entry("constant zero", "constant", 0, "@0", "D=A"),
			Entry("constant max", "constant", MaxLiteral, "@32767", "D=A"),
			Entry("local", "local", 2, "@LCL", "D=M", "@2", "A=D+A", "D=M"),
			Entry("argument", "argument", 1, "@ARG", "D=M", "@1", "A=D+A", "D=M"),
			Entry("this", "this", 6, "@THIS", "D=M", "@6", "A=D+A", "D=M"),
			Entry("that", "that", 5, "@THAT", "D=M", "@5", "A=D+A", "D=M"),
			Entry("temp", "temp", 3, "@R5", "D=A", "@3", "A=D+A", "D=M"),
			Entry("pointer 0", "pointer", 0, "@THIS", "D=M"),
			Entry("pointer 1", "pointer", 1, "@THAT", "D=M"),
			Entry("static", "static", 4, "@20", "D=M"),
		)
	})

	Context("when writing pop", func() {
		store := []string{"@R13", "M=D", "@SP", "AM=M-1", "D=M", "@R13", "A=M", "M=D"}

		DescribeTable("segments",
			func(segment string, index int, addr ...string) {
				Expect(w.WritePushPop(vm.Pop, segment, index)).To(Succeed())
				Expect(out.String()).To(Equal(lines(append(addr, store...)...)))
			},
			Entry("local", "local", 0, "@LCL", "D=M", "@0", "D=D+A"),
			Entry("argument", "argument", 2, "@ARG", "D=M", "@2", "D=D+A"),
			Entry("this", "this", 2, "@THIS", "D=M", "@2", "D=D+A"),
			Entry("that", "that", 5, "@THAT", "D=M", "@5", "D=D+A"),
			Entry("temp", "temp", 6, "@R5", "D=A", "@6", "D=D+A"),
			Entry("pointer 0", "pointer", 0, "@THIS", "D=A"),
			Entry("pointer 1", "pointer", 1, "@THAT", "D=A"),
			Entry("static", "static", 0, "@16", "D=A"),
		)

		It("should address pointers without an index", func() {
			Expect(w.WritePushPop(vm.Push, "pointer", 0)).To(Succeed())
			Expect(w.WritePushPop(vm.Pop, "pointer", 1)).To(Succeed())

			Expect(out.String()).NotTo(ContainSubstring("A=D+A"))
			Expect(out.String()).NotTo(ContainSubstring("D=D+A"))
			Expect(out.String()).NotTo(ContainSubstring("@0\n"))
			Expect(out.String()).NotTo(ContainSubstring("@1\n"))
		})
	})

	DescribeTable("rejecting invalid push/pop",
		func(kind vm.Kind, segment string, index int) {
			err := w.WritePushPop(kind, segment, index)
			Expect(err).To(MatchError(ErrNotPushPop))
			Expect(out.Len()).To(BeZero())
		},
		Entry("pop constant", vm.Pop, "constant", 0),
		Entry("pointer 2", vm.Push, "pointer", 2),
		Entry("temp 8", vm.Pop, "temp", 8),
		Entry("static 240", vm.Push, "static", 240),
		Entry("constant too large", vm.Push, "constant", MaxLiteral+1),
		Entry("negative index", vm.Push, "local", -1),
		Entry("unknown segment", vm.Push, "heap", 0),
		Entry("arithmetic kind", vm.Arithmetic, "local", 0),
		Entry("call kind", vm.Call, "local", 0),
	)

	Context("with annotations", func() {
		BeforeEach(func() {
			w = NewBuilder().WithAnnotations(true).Build(out)
		})

		It("should prefix every translation with its command", func() {
			Expect(w.WritePushPop(vm.Push, "constant", 1)).To(Succeed())
			Expect(w.WriteArithmetic("neg")).To(Succeed())

			Expect(out.String()).To(HavePrefix("// push constant 1\n@1\n"))
			Expect(out.String()).To(ContainSubstring("// neg\nD=0\n"))
		})
	})

	Context("with static symbols", func() {
		BeforeEach(func() {
			w = NewBuilder().WithStaticSymbols(true).Build(out)
		})

		It("should use the file name", func() {
			w.SetFileName("/tmp/prog/Foo.vm")

			Expect(w.WritePushPop(vm.Push, "static", 3)).To(Succeed())
			Expect(w.WritePushPop(vm.Pop, "static", 1)).To(Succeed())

			Expect(out.String()).To(HavePrefix("@Foo.3\nD=M\n"))
			Expect(out.String()).To(ContainSubstring("@Foo.1\nD=A\n"))
		})

		It("should fall back to slots without a file name", func() {
			Expect(w.WritePushPop(vm.Push, "static", 3)).To(Succeed())
			Expect(out.String()).To(HavePrefix("@19\nD=M\n"))
		})
	})

	Context("with several source files", func() {
		It("should give each file its own static slots", func() {
			w.SetFileName("A.vm")
			Expect(w.WritePushPop(vm.Pop, "static", 0)).To(Succeed())
			Expect(w.WritePushPop(vm.Pop, "static", 2)).To(Succeed())

			w.SetFileName("B.vm")
			Expect(w.WritePushPop(vm.Pop, "static", 0)).To(Succeed())

			w.SetFileName("B.vm")
			Expect(w.WritePushPop(vm.Push, "static", 1)).To(Succeed())

			Expect(out.String()).To(HavePrefix("@16\nD=A\n"))
			Expect(out.String()).To(ContainSubstring("@18\nD=A\n"))
			Expect(out.String()).To(ContainSubstring("@19\nD=A\n"))
			Expect(out.String()).To(ContainSubstring("@20\nD=M\n"))
		})

		It("should reject statics past the last slot", func() {
			w.SetFileName("A.vm")
			Expect(w.WritePushPop(vm.Push, "static", 239)).To(Succeed())
			out.Reset()

			w.SetFileName("B.vm")
			err := w.WritePushPop(vm.Push, "static", 0)

			Expect(err).To(MatchError(ErrNotPushPop))
			Expect(out.Len()).To(BeZero())
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
			w = NewCodeWriter(sink)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should write each command in one call", func() {
			sink.EXPECT().
				Write([]byte(lines("@SP", "A=M-1", "M=!M"))).
				Return(15, nil)

			Expect(w.WriteArithmetic("not")).To(Succeed())
		})

		It("should return the write error", func() {
			diskFull := errors.New("disk full")
			sink.EXPECT().Write(gomock.Any()).Return(0, diskFull)

			err := w.WritePushPop(vm.Push, "constant", 1)
			Expect(errors.Is(err, diskFull)).To(BeTrue())
		})

		It("should not consume a label pair on failure", func() {
			sink.EXPECT().Write(gomock.Any()).Return(0, errors.New("closed"))

			Expect(w.WriteArithmetic("gt")).NotTo(Succeed())
			Expect(w.JumpCount()).To(Equal(0))
		})
	})
})
