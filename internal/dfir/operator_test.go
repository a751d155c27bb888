package dfir

import (
	"errors"
	"strings"
	"testing"

	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfnode"
	"github.com/electwix/dbcircuit/internal/dftype"
)

func testBase(counter *dfnode.Counter) dfnode.Base {
	return dfnode.NewBase(counter, nil)
}

func TestNewOperatorAllocatesFreshName(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()

	op1, err := NewOperator(testBase(counter), OpFilter, nil, dftype.Bool(false), "", namer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op2, err := NewOperator(testBase(counter), OpFilter, nil, dftype.Bool(false), "", namer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op1.Name == op2.Name {
		t.Fatalf("expected distinct names, both got %q", op1.Name)
	}
	if op1.Name != "filt" || op2.Name != "filt2" {
		t.Fatalf("unexpected allocated names: %q, %q", op1.Name, op2.Name)
	}
}

func TestNewOperatorRejectsDuplicateExplicitName(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()

	if _, err := NewOperator(testBase(counter), OpSource, nil, dftype.Bool(false), "orders", namer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := NewOperator(testBase(counter), OpSource, nil, dftype.Bool(false), "orders", namer)
	var invariant *compilerr.IRInvariant
	if !errors.As(err, &invariant) {
		t.Fatalf("expected *compilerr.IRInvariant, got %v", err)
	}
}

func TestRenderSource(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()
	op, err := NewOperator(testBase(counter), OpSource, nil, dftype.MakeZSet(dftype.Bool(false)), "src1", namer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op.SourceName = "orders"

	got, err := op.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "let src1 = circuit.add_source(Generator::new(move || src1_cell));"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderSinkRequiresExactlyOneInput(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()
	sink, err := NewOperator(testBase(counter), OpSink, nil, dftype.MakeZSet(dftype.Bool(false)), "sink1", namer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sink.Render(); err == nil {
		t.Fatal("expected error rendering a sink with no inputs")
	}

	src, err := NewOperator(testBase(counter), OpSource, nil, dftype.MakeZSet(dftype.Bool(false)), "src1", namer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.AddInput(src)

	got, err := sink.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "src1.inspect(move |m| { *sink1_cell.borrow_mut() = m.clone(); });"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderSumJoinsAllButFirstInput(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()
	rowType := dftype.MakeZSet(dftype.Bool(false))

	a, _ := NewOperator(testBase(counter), OpSource, nil, rowType, "a", namer)
	b, _ := NewOperator(testBase(counter), OpSource, nil, rowType, "b", namer)
	c, _ := NewOperator(testBase(counter), OpSource, nil, rowType, "c", namer)

	sum, err := NewOperator(testBase(counter), OpSum, nil, rowType, "sum1", namer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum.AddInput(a)
	sum.AddInput(b)
	sum.AddInput(c)

	got, err := sum.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "let sum1: Stream<ZSetHashMap<bool, Weight>> = a.sum(&[b, c]);") {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderUnaryNoFunctionRequiresOneInput(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()
	rowType := dftype.MakeZSet(dftype.Bool(false))

	neg, _ := NewOperator(testBase(counter), OpNegate, nil, rowType, "neg1", namer)
	if _, err := neg.Render(); err == nil {
		t.Fatal("expected error rendering negate with no inputs")
	}

	src, _ := NewOperator(testBase(counter), OpSource, nil, rowType, "src1", namer)
	neg.AddInput(src)
	got, err := neg.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "let neg1: Stream<ZSetHashMap<bool, Weight>> = src1.neg();"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCellNameConvention(t *testing.T) {
	counter := dfnode.NewCounter()
	namer := NewNamer()
	op, _ := NewOperator(testBase(counter), OpSink, nil, dftype.MakeZSet(dftype.Bool(false)), "total", namer)
	if got, want := CellName(op), "total_cell"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
