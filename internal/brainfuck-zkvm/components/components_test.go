package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/stark"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/utils"
	"github.com/vybium/brainfuck-zkvm/internal/brainfuck-zkvm/vm"
)

// executionTrace compiles and runs a program and returns its trace
func executionTrace(t *testing.T, source, input string) []vm.Registers {
	t.Helper()
	program, err := vm.Compile(source)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	var reader *strings.Reader
	machine := vm.NewMachine(program, nil, nil)
	if input != "" {
		reader = strings.NewReader(input)
		machine = vm.NewMachine(program, reader, nil)
	}
	if err := machine.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return machine.Trace()
}

// TestClaimLogSizes tests the claimed tree shapes
func TestClaimLogSizes(t *testing.T) {
	claim := Claim[MemoryColumn]{LogSize: 5}
	sizes := claim.LogSizes()

	if len(sizes) != stark.NumTrees {
		t.Fatalf("LogSizes() has %d trees, expected %d", len(sizes), stark.NumTrees)
	}
	if len(sizes[stark.PreprocessedTreeIdx]) != 0 {
		t.Error("preprocessed log sizes should be empty")
	}
	if len(sizes[stark.InteractionTreeIdx]) != 0 {
		t.Error("interaction log sizes should be empty")
	}
	main := sizes[stark.MainTreeIdx]
	expected := MemoryColumn{}.Count()
	if len(main) != expected {
		t.Fatalf("main log sizes has %d entries, expected %d", len(main), expected)
	}
	for _, logSize := range main {
		if logSize != 5 {
			t.Errorf("main log size = %d, expected 5", logSize)
		}
	}
}

// TestClaimMixIntoBindsLogSize tests that claims with different shapes
// diverge the transcript
func TestClaimMixIntoBindsLogSize(t *testing.T) {
	a := stark.NewChannel("sha3")
	b := stark.NewChannel("sha3")

	claimA := Claim[ProcessorColumn]{LogSize: 3}
	claimB := Claim[ProcessorColumn]{LogSize: 4}
	claimA.MixInto(a)
	claimB.MixInto(b)

	if a.DrawFelt().Equal(b.DrawFelt()) {
		t.Error("claims with different log sizes must diverge the transcript")
	}
}

// TestBuildTablesEmptyTrace tests empty trace rejection
func TestBuildTablesEmptyTrace(t *testing.T) {
	if _, err := BuildTables(nil); !errors.Is(err, ErrEmptyTrace) {
		t.Errorf("BuildTables(nil) = %v, expected ErrEmptyTrace", err)
	}
}

// TestBuildTablesShape tests padding and table shapes
func TestBuildTablesShape(t *testing.T) {
	trace := executionTrace(t, "+++[-]", "") // 10 steps
	tables, err := BuildTables(trace)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}

	if tables.LogSize != 4 {
		t.Errorf("LogSize = %d, expected 4 for a 10-step trace", tables.LogSize)
	}

	size := 1 << tables.LogSize
	for name, columns := range map[string][][]field.Element{
		"processor":   tables.Processor,
		"memory":      tables.Memory,
		"instruction": tables.Instruction,
		"io":          tables.Io,
	} {
		for i, column := range columns {
			if len(column) != size {
				t.Errorf("%s column %d has %d rows, expected %d", name, i, len(column), size)
			}
		}
	}

	if len(tables.Processor) != (ProcessorColumn{}.Count()) {
		t.Errorf("processor has %d columns, expected %d", len(tables.Processor), ProcessorColumn{}.Count())
	}
	if len(tables.Memory) != (MemoryColumn{}.Count()) {
		t.Errorf("memory has %d columns, expected %d", len(tables.Memory), MemoryColumn{}.Count())
	}
	if len(tables.Instruction) != (InstructionColumn{}.Count()) {
		t.Errorf("instruction has %d columns, expected %d", len(tables.Instruction), InstructionColumn{}.Count())
	}
	if len(tables.Io) != (IoColumn{}.Count()) {
		t.Errorf("io has %d columns, expected %d", len(tables.Io), IoColumn{}.Count())
	}
}

// TestPadTraceContinuesClock tests that padding keeps the clock
// incrementing and freezes the machine state
func TestPadTraceContinuesClock(t *testing.T) {
	trace := executionTrace(t, "+++++", "") // 5 steps, padded to 8
	padded := PadTrace(trace)

	if len(padded) != 8 {
		t.Fatalf("padded length = %d, expected 8", len(padded))
	}
	for i, row := range padded {
		if row.Clk.Value() != uint64(i) {
			t.Fatalf("row %d has clk %d, the padded clock must stay consecutive", i, row.Clk.Value())
		}
	}
	last := trace[len(trace)-1]
	for _, row := range padded[len(trace):] {
		if !row.Ci.IsZero() || !row.Ni.IsZero() {
			t.Error("padding rows must clear the instruction registers")
		}
		if !row.Mp.Equal(last.Mp) || !row.Mv.Equal(last.Mv) {
			t.Error("padding rows must freeze the memory registers")
		}
	}
}

// TestMemoryTableSorted tests the memory table ordering invariant
func TestMemoryTableSorted(t *testing.T) {
	trace := executionTrace(t, "+>++>+++<-", "")
	tables, err := BuildTables(trace)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}

	mp := tables.Memory[memMpCol]
	clk := tables.Memory[memClkCol]
	if !mp[0].IsZero() {
		t.Error("the first memory row must address cell 0")
	}
	for i := 1; i < len(mp); i++ {
		diff := mp[i].Sub(mp[i-1])
		if !diff.IsZero() && !diff.Equal(field.One) {
			t.Fatalf("memory row %d jumps by %v cells, expected 0 or 1", i, diff)
		}
		if diff.IsZero() && clk[i].Value() <= clk[i-1].Value() {
			t.Fatalf("memory rows for one cell must be clock ordered at row %d", i)
		}
	}
}

// drawTestElements draws lookup randomness for all three relations
func drawTestElements(channel *stark.Channel) (mem, ins, io LookupElements) {
	mem = DrawLookupElements(channel, 3)
	ins = DrawLookupElements(channel, 3)
	io = DrawLookupElements(channel, 2)
	return mem, ins, io
}

// buildTestInteractions builds all interaction traces for the tables
func buildTestInteractions(
	t *testing.T,
	tables *Tables,
	mem, ins, io *LookupElements,
) (memCols, insCols, ioCols, procCols [][]field.Element, claims [4]*InteractionClaim) {
	t.Helper()
	var err error
	memCols, claims[0], err = BuildMemoryInteraction(tables.Memory, mem)
	if err != nil {
		t.Fatalf("BuildMemoryInteraction failed: %v", err)
	}
	insCols, claims[1], err = BuildInstructionInteraction(tables.Instruction, ins)
	if err != nil {
		t.Fatalf("BuildInstructionInteraction failed: %v", err)
	}
	ioCols, claims[2], err = BuildIoInteraction(tables.Io, io)
	if err != nil {
		t.Fatalf("BuildIoInteraction failed: %v", err)
	}
	procCols, claims[3], err = BuildProcessorInteraction(tables.Processor, mem, ins, io)
	if err != nil {
		t.Fatalf("BuildProcessorInteraction failed: %v", err)
	}
	return memCols, insCols, ioCols, procCols, claims
}

// TestLookupSumsCancel tests that the provide and consume sums
// telescope to zero for a real execution
func TestLookupSumsCancel(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  string
	}{
		{"arithmetic only", "+++[-]", ""},
		{"pointer movement", "+>++>+++<-<-", ""},
		{"io", ",[.,]", "hi"},
		{"no io instructions", "++[->+<]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := executionTrace(t, tt.source, tt.input)
			tables, err := BuildTables(trace)
			if err != nil {
				t.Fatalf("BuildTables failed: %v", err)
			}

			channel := stark.NewChannel("sha3")
			channel.MixU64(1)
			mem, ins, io := drawTestElements(channel)
			_, _, _, _, claims := buildTestInteractions(t, tables, &mem, &ins, &io)

			total := field.Zero
			for _, claim := range claims {
				total = total.Add(claim.ClaimedSum)
			}
			if !total.IsZero() {
				t.Errorf("lookup sums do not cancel, total = %v", total)
			}
		})
	}
}

// evalFrame builds the frame of one row of a component's own columns
func evalFrame(row int, main, interaction [][]field.Element) *stark.EvalFrame {
	size := len(main[0])
	next := (row + 1) % size
	frame := &stark.EvalFrame{
		IsFirst:   field.Zero,
		IsLast:    field.Zero,
		Cur:       make([]field.Element, len(main)),
		Next:      make([]field.Element, len(main)),
		InterCur:  make([]field.Element, len(interaction)),
		InterNext: make([]field.Element, len(interaction)),
	}
	if row == 0 {
		frame.IsFirst = field.One
	}
	if row == size-1 {
		frame.IsLast = field.One
	}
	for i, column := range main {
		frame.Cur[i] = column[row]
		frame.Next[i] = column[next]
	}
	for i, column := range interaction {
		frame.InterCur[i] = column[row]
		frame.InterNext[i] = column[next]
	}
	return frame
}

// TestConstraintsVanishOnHonestTrace tests that every component's
// constraints vanish on every row of an honestly built trace
func TestConstraintsVanishOnHonestTrace(t *testing.T) {
	trace := executionTrace(t, ",+[->+<].", "A")
	tables, err := BuildTables(trace)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}

	channel := stark.NewChannel("sha3")
	channel.MixU64(7)
	mem, ins, io := drawTestElements(channel)
	memCols, insCols, ioCols, procCols, claims := buildTestInteractions(t, tables, &mem, &ins, &io)

	var span stark.TreeSpan
	evaluators := []struct {
		name        string
		component   stark.Component
		main, inter [][]field.Element
	}{
		{
			name:      "memory",
			component: NewMemoryEval(&Claim[MemoryColumn]{LogSize: tables.LogSize}, span, mem, claims[0]),
			main:      tables.Memory,
			inter:     memCols,
		},
		{
			name:      "instruction",
			component: NewInstructionEval(&Claim[InstructionColumn]{LogSize: tables.LogSize}, span, ins, claims[1]),
			main:      tables.Instruction,
			inter:     insCols,
		},
		{
			name:      "io",
			component: NewIoEval(&Claim[IoColumn]{LogSize: tables.LogSize}, span, io, claims[2]),
			main:      tables.Io,
			inter:     ioCols,
		},
		{
			name:      "processor",
			component: NewProcessorEval(&Claim[ProcessorColumn]{LogSize: tables.LogSize}, span, mem, ins, io, claims[3]),
			main:      tables.Processor,
			inter:     procCols,
		},
	}

	for _, ev := range evaluators {
		t.Run(ev.name, func(t *testing.T) {
			size := 1 << tables.LogSize
			for row := 0; row < size; row++ {
				values := ev.component.EvaluateConstraints(evalFrame(row, ev.main, ev.inter))
				if len(values) != ev.component.NumConstraints() {
					t.Fatalf("EvaluateConstraints returned %d values, expected %d",
						len(values), ev.component.NumConstraints())
				}
				for c, value := range values {
					if !value.IsZero() {
						t.Fatalf("constraint %d does not vanish at row %d", c, row)
					}
				}
			}
		})
	}
}

// TestConstraintsCatchTampering tests that a corrupted trace row breaks
// a processor constraint
func TestConstraintsCatchTampering(t *testing.T) {
	trace := executionTrace(t, "+++[-]", "")
	tables, err := BuildTables(trace)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}

	channel := stark.NewChannel("sha3")
	channel.MixU64(7)
	mem, ins, io := drawTestElements(channel)
	_, _, _, procCols, claims := buildTestInteractions(t, tables, &mem, &ins, &io)

	// Skip a clock cycle in the middle of the trace
	tables.Processor[procClkCol][3] = tables.Processor[procClkCol][3].Add(field.One)

	var span stark.TreeSpan
	processor := NewProcessorEval(&Claim[ProcessorColumn]{LogSize: tables.LogSize}, span, mem, ins, io, claims[3])

	violated := false
	size := 1 << tables.LogSize
	for row := 0; row < size && !violated; row++ {
		for _, value := range processor.EvaluateConstraints(evalFrame(row, tables.Processor, procCols)) {
			if !value.IsZero() {
				violated = true
				break
			}
		}
	}
	if !violated {
		t.Error("a skipped clock cycle must violate a processor constraint")
	}
}

// TestInteractionClaimMixInto tests that claimed sums bind into the
// transcript
func TestInteractionClaimMixInto(t *testing.T) {
	a := stark.NewChannel("sha3")
	b := stark.NewChannel("sha3")

	claimA := InteractionClaim{ClaimedSum: field.New(1)}
	claimB := InteractionClaim{ClaimedSum: field.New(2)}
	claimA.MixInto(a)
	claimB.MixInto(b)

	if a.DrawFelt().Equal(b.DrawFelt()) {
		t.Error("different claimed sums must diverge the transcript")
	}
}

// TestTablesRespectLogMaxRows sanity checks the builder against the
// default configuration bound
func TestTablesRespectLogMaxRows(t *testing.T) {
	trace := executionTrace(t, "+++[-]", "")
	tables, err := BuildTables(trace)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}
	if int(tables.LogSize) > int(utils.DefaultConfig().LogMaxRows) {
		t.Errorf("LogSize %d exceeds the default maximum", tables.LogSize)
	}
}
