package vcd_test

import (
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/db47h/vcd"
	"github.com/db47h/vcd/vcdtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const header = `$scope module m $end
$var wire 1 ! a $end
$var wire 4 " bus [3:0] $end
$var real 64 # r $end
$upscope $end
$enddefinitions $end
`

type event struct {
	name string
	args []interface{}
}

type recorder struct {
	events []event
}

func (r *recorder) add(name string, args ...interface{}) error {
	r.events = append(r.events, event{name, args})
	return nil
}

func (r *recorder) EnterScope(typ, name string) error { return r.add("enter", typ, name) }
func (r *recorder) LeaveScope() error                 { return r.add("leave") }
func (r *recorder) Declare(d *vcd.VarDecl) error      { return r.add("var", d.Path, d.Code, d.Width) }
func (r *recorder) EndDefinitions(h *vcd.Header) error {
	return r.add("enddefinitions", h.Timescale.String())
}
func (r *recorder) Time(t uint64) error { return r.add("time", t) }
func (r *recorder) Change(t uint64, code string, v vcd.Value) error {
	return r.add("change", t, code, v.String())
}

func TestWalk(t *testing.T) {
	in := `$timescale 10ns $end
$scope module top $end
$var wire 1 ! clk $end
$scope task t $end
$var reg 8 # data [7:0] $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
$dumpvars 0! bz # $end
#5 1!
#7
b1010 #
`
	var r recorder
	require.NoError(t, vcd.Walk(strings.NewReader(in), &r))
	assert.Equal(t, []event{
		{"enter", []interface{}{"module", "top"}},
		{"var", []interface{}{"top.clk", "!", 1}},
		{"enter", []interface{}{"task", "t"}},
		{"var", []interface{}{"top.t.data[7:0]", "#", 8}},
		{"leave", nil},
		{"leave", nil},
		{"enddefinitions", []interface{}{"10ns"}},
		{"time", []interface{}{uint64(0)}},
		{"change", []interface{}{uint64(0), "!", "0"}},
		{"change", []interface{}{uint64(0), "#", "z"}},
		{"time", []interface{}{uint64(5)}},
		{"change", []interface{}{uint64(5), "!", "1"}},
		{"time", []interface{}{uint64(7)}},
		{"change", []interface{}{uint64(7), "#", "1010"}},
	}, r.events)
}

func TestWalk_stop(t *testing.T) {
	f, err := os.Open(counterTB)
	require.NoError(t, err)
	defer f.Close()

	var times []uint64
	err = vcd.Walk(f, &vcd.Funcs{
		OnTime: func(t uint64) error {
			if t == 3 {
				return vcd.Stop
			}
			times = append(times, t)
			return nil
		}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 2}, times)
}

func TestWalk_visitorError(t *testing.T) {
	boom := errors.New("boom")
	err := vcd.Walk(strings.NewReader(header+"#0 1!\n"), &vcd.Funcs{
		OnChange: func(uint64, string, vcd.Value) error { return boom },
	})
	assert.Equal(t, boom, err)
}

func TestParse_withVisitor(t *testing.T) {
	n := 0
	v, err := vcd.Open(counterTB, vcd.WithVisitor(&vcd.Funcs{
		OnChange: func(t uint64, code string, _ vcd.Value) error {
			if code == "!" {
				n++
			}
			return nil
		}}))
	require.NoError(t, err)
	out, err := v.Signal("counter_tb.out[1:0]")
	require.NoError(t, err)
	assert.Equal(t, out.Len(), n)
}

func TestParse_errors(t *testing.T) {
	data := []struct {
		name string
		in   string
		kind error
		line int
	}{
		{"missing_end", "$scope module m $end\n$var wire 1 ! a\n", vcd.ErrMalformedHeader, 2},
		{"stray_upscope", "$upscope $end\n", vcd.ErrMalformedHeader, 1},
		{"short_var", "$var wire 1 ! $end\n", vcd.ErrMalformedHeader, 1},
		{"bad_width", "$var wire x ! a $end\n", vcd.ErrMalformedHeader, 1},
		{"zero_width", "$var wire 0 ! a $end\n", vcd.ErrMalformedHeader, 1},
		{"bad_timescale", "$timescale 1 min $end\n", vcd.ErrMalformedHeader, 1},
		{"no_scope_name", "$scope $end\n", vcd.ErrMalformedHeader, 1},
		{"garbage", "hello\n", vcd.ErrMalformedHeader, 1},
		{"stray_end", "$end\n", vcd.ErrMalformedHeader, 1},
		{"bad_time", header + "#1x\n", vcd.ErrSyntax, 7},
		{"empty_time", header + "#\n", vcd.ErrSyntax, 7},
		{"truncated_vector", header + "#0\nb1010", vcd.ErrSyntax, 8},
		{"open_dumpvars", header + "#0\n$dumpvars\n1!\n", vcd.ErrSyntax, 8},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := vcd.ParseString(d.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, d.kind), "unexpected error %v", err)
			var pe *vcd.ParseError
			require.True(t, errors.As(err, &pe), "unexpected error type %T", err)
			assert.Equal(t, d.line, pe.Line)
			assert.Equal(t, d.kind, errors.Cause(err))
		})
	}
}

func TestParse_anomalies(t *testing.T) {
	data := []struct {
		name string
		body string
		kind error
	}{
		{"unknown_code", "#0 1?\n", vcd.ErrUnknownIdentifier},
		{"unknown_vector_code", "#0 b1 ?\n", vcd.ErrUnknownIdentifier},
		{"bad_bit", "#0 u!\n", vcd.ErrMalformedValue},
		{"bad_vector", "#0 b12 \"\n", vcd.ErrMalformedValue},
		{"bad_real", "#0 rfoo #\n", vcd.ErrMalformedValue},
		{"too_wide", "#0 b10101 \"\n", vcd.ErrMalformedValue},
		{"bits_for_real", "#0 b1 #\n", vcd.ErrMalformedValue},
		{"real_for_bits", "#0 r1.5 !\n", vcd.ErrMalformedValue},
		{"real_for_vector", "#0 r2 \"\n", vcd.ErrMalformedValue},
		{"backwards", "#5 1!\n#3 0!\n", vcd.ErrOutOfOrder},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			_, err := vcd.ParseString(header+d.body, vcd.WithLogger(zap.New(core)))
			require.NoError(t, err)
			assert.NotZero(t, logs.Len(), "anomaly not logged")

			_, err = vcd.ParseString(header+d.body, vcd.Strict())
			assert.True(t, errors.Is(err, d.kind), "unexpected error %v", err)
		})
	}
}

func TestParse_tolerant(t *testing.T) {
	in := header + `#0
1!
1?
b1x0 "
#5
u!
0!
b10101 "
#3
1!
#8
1!
`
	v, err := vcd.ParseString(in)
	require.NoError(t, err)
	a, err := v.Signal("m.a")
	require.NoError(t, err)
	// the change at #3 is out of order for a and dropped
	assert.Equal(t, []vcd.Delta{
		{Time: 0, Value: bit(t, '1')},
		{Time: 5, Value: bit(t, '0')},
		{Time: 8, Value: bit(t, '1')},
	}, a.Entries())

	bus, err := v.Signal("m.bus[3:0]")
	require.NoError(t, err)
	assert.Equal(t, "1x0", bus.ValueAt(0).String())
	assert.Equal(t, "10101", bus.ValueAt(5).String())
	assert.Equal(t, uint64(8), v.EndTime())
}

func TestParse_extendVectors(t *testing.T) {
	in := header + "#0\nb1x0 \"\n1\"\n#1\nbz \"\n#2\nb10101 \"\n"
	v, err := vcd.ParseString(in, vcd.ExtendVectors())
	require.NoError(t, err)
	bus, err := v.Signal("m.bus[3:0]")
	require.NoError(t, err)
	assert.Equal(t, "0001", bus.ValueAt(0).String())
	assert.Equal(t, "zzzz", bus.ValueAt(1).String())
	assert.Equal(t, "0101", bus.ValueAt(2).String())
}

func TestParse_filter(t *testing.T) {
	v, err := vcd.Open(counterTB, vcd.WithFilter(vcd.MustGlob("counter_tb.top.*")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"counter_tb.top.clock",
		"counter_tb.top.enable",
		"counter_tb.top.out[1:0]",
		"counter_tb.top.reset",
	}, v.Paths())
	_, err = v.Signal("counter_tb.clock")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))
	out, err := v.Signal("counter_tb.top.out[1:0]")
	require.NoError(t, err)
	assert.Equal(t, "11", out.ValueAt(10).String())

	v, err = vcd.Open(counterTB, vcd.WithFilter(vcd.Exact("counter_tb.enable")))
	require.NoError(t, err)
	assert.Equal(t, 1, v.Index().Len())
	assert.Equal(t, []string{"counter_tb.enable"}, v.Index().Aliases("#"))
}

func TestParse_structure(t *testing.T) {
	in := `$comment header comment $end
$scope module top $end
$var wire 1 ! a $end
$upscope $end
$scope module top $end
$var wire 1 " b $end
$var wire 1 # i [3] $end
$upscope $end
$foo unknown block $end
$enddefinitions $end
$comment body comment $end
#0
1! 0"
$dumpoff x! $end
$bar $end
#1
$dumpon 1! $end
$dumpall 1! 1" b1 # $end
$end
`
	v, err := vcd.ParseString(in)
	require.NoError(t, err)
	top, err := v.Scope("top")
	require.NoError(t, err)
	assert.Len(t, v.Root().Scopes(), 1)
	assert.Len(t, top.Vars(), 3)

	i, err := v.Var("top.i[3]")
	require.NoError(t, err)
	assert.True(t, i.Ranged)
	assert.Equal(t, 3, i.MSB)
	assert.Equal(t, 3, i.LSB)
	assert.Equal(t, "i", i.Base)

	a, _ := v.Signal("top.a")
	assert.Equal(t, "x", a.ValueAt(0).String())
	assert.Equal(t, "1", a.ValueAt(1).String())
	assert.Equal(t, []string{"header comment"}, v.Header().Comments)
}

func TestParse_kindMismatch(t *testing.T) {
	v, err := vcd.ParseString(header + "#0\n1!\nr1.5 !\nr2.5 #\n#1\nb1 #\n")
	require.NoError(t, err)
	a, _ := v.Signal("m.a")
	assert.Equal(t, []vcd.Delta{{Time: 0, Value: bit(t, '1')}}, a.Entries())
	r, _ := v.Signal("m.r")
	require.Equal(t, 1, r.Len())
	assert.Equal(t, vcd.Real, r.ValueAt(1).Kind())
	assert.Equal(t, "2.5", r.ValueAt(1).String())
}

func TestParse_selectionWidth(t *testing.T) {
	in := "$var wire 8 ! data [3:0] $end\n$var wire 4 \" bit [2] $end\n$enddefinitions $end\n"
	core, logs := observer.New(zapcore.DebugLevel)
	v, err := vcd.ParseString(in, vcd.WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, []string{"data[3:0]", "bit[2]"}, v.Paths())
	assert.Equal(t, 2, logs.FilterMessageSnippet("does not match width").Len())

	_, err = vcd.ParseString(in, vcd.Strict())
	assert.True(t, errors.Is(err, vcd.ErrMalformedHeader), "unexpected error %v", err)
	var pe *vcd.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Line)

	_, err = vcd.ParseString("$var wire 4 ! data [3:0] $end\n$var wire 1 \" bit [2] $end\n", vcd.Strict())
	assert.NoError(t, err)
}

func TestParse_redeclaredCode(t *testing.T) {
	in := `$scope module m $end
$var wire 1 ! a $end
$var wire 1 ! b $end
$var wire 1 " a $end
$upscope $end
$enddefinitions $end
#0
0! 1"
`
	v, err := vcd.ParseString(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"m.b"}, v.Index().Aliases("!"))
	assert.Equal(t, []string{"m.a"}, v.Index().Aliases("\""))
	assert.Equal(t, map[string]string{"m.a": "\"", "m.b": "!"}, v.References())

	al, err := v.Aliases("m.a")
	require.NoError(t, err)
	assert.Equal(t, []string{"m.a"}, al)
	a, err := v.Signal("m.a")
	require.NoError(t, err)
	assert.Equal(t, []string{"m.a"}, a.References())
	assert.Equal(t, "1", a.ValueAt(0).String())
	va, err := v.Var("m.a")
	require.NoError(t, err)
	assert.Equal(t, "\"", va.Code)
}

func TestParse_noEndDefinitions(t *testing.T) {
	v, err := vcd.ParseString("$var wire 1 ! a $end\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v.Paths())
}

func TestParseError_Error(t *testing.T) {
	_, err := vcd.ParseString(header + "#1x\n")
	require.Error(t, err)
	assert.Equal(t, `line 7: syntax error: invalid timestamp near "#1x"`, err.Error())
}

func TestWalk_random(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	d := vcdtest.RandomDump(r, 30, 100)
	var got []vcdtest.Change
	err := vcd.Walk(strings.NewReader(d.String()), &vcd.Funcs{
		OnChange: func(t uint64, code string, v vcd.Value) error {
			got = append(got, vcdtest.Change{Time: t, Code: code, Value: v})
			return nil
		}})
	require.NoError(t, err)
	assert.Equal(t, d.Changes, got)

	v, err := vcd.ParseString(d.String(), vcd.Flat())
	require.NoError(t, err)
	for _, dv := range d.Vars {
		s, err := v.Signal(dv.Path())
		require.NoError(t, err)
		vcdtest.CompareSignal(t, d.Deltas(dv.Code), s)
	}
}
