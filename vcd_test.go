package vcd_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/db47h/vcd"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterTB = "testdata/counter_tb.vcd"

const smallClock = `$date
	Mon Jan 01 00:00:00 2018
$end
$var wire 1 ! clock $end
$enddefinitions $end
#0
1!
#1
0!
#2
1!
`

const singleLine = `$timescale 1 us $end
$scope module X $end
$var wire 1 ! D0 $end
$var wire 1 " D1 $end
$upscope $end
$enddefinitions $end
#0  0! 1"
#10 1! 0"
#20 0!
`

const extraMetadata = `$comment
	Generated by a tool with some extra metadata
$end
$date 2018-10-14 $end
$version VCD generator 1.0 $end
$timescale 6666ps $end
$scope module logic $end
$var wire 8 # data $end
$var real 64 r voltage $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
bxxxxxxxx #
r0.5 r
$end
#1
b10100101 #
r1.25E1 r
`

func openCounter(t *testing.T, opts ...vcd.Option) *vcd.VCD {
	t.Helper()
	v, err := vcd.Open(counterTB, opts...)
	require.NoError(t, err)
	return v
}

// counterOut returns the expected value of counter_tb.out at time t.
//
func counterOut(t uint64) string {
	switch {
	case t < 2:
		return "x"
	case t < 6:
		return "0"
	}
	return strconv.FormatUint((t-4)/2%4, 2)
}

func TestOpen_counter(t *testing.T) {
	v := openCounter(t)

	h := v.Header()
	assert.Equal(t, "Sun Oct 14 10:21:03 2018", h.Date)
	assert.Equal(t, "Icarus Verilog", h.Version)
	assert.Zero(t, v.Timescale().Scale().Cmp(apd.New(1, 0)))
	assert.Equal(t, uint64(0), v.BeginTime())
	assert.Equal(t, uint64(33), v.EndTime())

	assert.Equal(t, []string{
		"counter_tb.out[1:0]",
		"counter_tb.clock",
		"counter_tb.enable",
		"counter_tb.reset",
		"counter_tb.top.clock",
		"counter_tb.top.enable",
		"counter_tb.top.out[1:0]",
		"counter_tb.top.reset",
	}, v.Paths())
	assert.Equal(t, 4, v.Index().Len())

	out, err := v.Signal("counter_tb.out[1:0]")
	require.NoError(t, err)
	assert.Equal(t, vcd.Vector, out.Kind())
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, "wire", out.Type)
	assert.Equal(t, []vcd.Delta{
		{Time: 0, Value: bits(t, "x")},
		{Time: 2, Value: bits(t, "0")},
		{Time: 6, Value: bits(t, "1")},
		{Time: 8, Value: bits(t, "10")},
		{Time: 10, Value: bits(t, "11")},
		{Time: 12, Value: bits(t, "0")},
	}, out.Entries()[:6])
	for tm := uint64(0); tm <= 33; tm++ {
		assert.Equal(t, counterOut(tm), out.ValueAt(tm).String(), "time %d", tm)
	}

	clk, err := v.Signal("counter_tb.top.clock")
	require.NoError(t, err)
	assert.Equal(t, vcd.Bit, clk.Kind())
	n := 0
	for val := range clk.Slice(0, 34) {
		expected := "1"
		if n%2 != 0 {
			expected = "0"
		}
		assert.Equal(t, expected, val.String(), "clock at %d", n)
		n++
	}
	assert.Equal(t, 34, n)

	_, err = v.Signal("counter_tb.nope")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))
}

func TestVCD_aliases(t *testing.T) {
	v := openCounter(t)
	ms := v.Find(vcd.MustRegexp("out.*"))
	require.Len(t, ms, 2)
	assert.Equal(t, []string{"counter_tb.out[1:0]", "counter_tb.top.out[1:0]"}, ms.Paths())
	assert.Same(t, ms[0].Signal, ms[1].Signal)
	assert.Equal(t, "!", ms[0].Var.Code)
	assert.Equal(t, "wire", ms[0].Var.Type)
	assert.Equal(t, "reg", ms[1].Var.Type)

	al, err := v.Aliases("counter_tb.top.reset")
	require.NoError(t, err)
	assert.Equal(t, []string{"counter_tb.reset", "counter_tb.top.reset"}, al)

	refs := v.References()
	assert.Equal(t, "\"", refs["counter_tb.top.clock"])
	refs["counter_tb.top.clock"] = "?"
	assert.Equal(t, "\"", v.References()["counter_tb.top.clock"])

	sig, err := v.Index().Lookup("$")
	require.NoError(t, err)
	assert.Equal(t, []string{"counter_tb.reset", "counter_tb.top.reset"}, sig.References())
	_, err = v.Index().Lookup("%")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))
}

func TestVCD_FindOne(t *testing.T) {
	v := openCounter(t)

	m, err := v.FindOne(vcd.MustRegexp(`counter_tb\.out.*`))
	require.NoError(t, err)
	assert.Equal(t, "counter_tb.out[1:0]", m.Path)
	assert.False(t, m.IsScope())

	_, err = v.FindOne(vcd.MustRegexp("out.*"))
	var ae *vcd.AmbiguousError
	require.True(t, errors.As(err, &ae), "unexpected error %v", err)
	assert.True(t, errors.Is(err, vcd.ErrAmbiguous))
	assert.Len(t, ae.Matches, 2)

	_, err = v.FindOne(vcd.MustRegexp("nothing"))
	assert.True(t, errors.Is(err, vcd.ErrNotFound))

	m, err = v.FindOne(vcd.MustRegexp("counter_tb$"))
	require.NoError(t, err)
	require.True(t, m.IsScope())
	s := m.Scope
	assert.Equal(t, "module", s.Type)

	m, err = s.FindOne(vcd.MustRegexp("out.*"))
	require.NoError(t, err)
	assert.Equal(t, "counter_tb.out[1:0]", m.Path)

	m, err = s.FindOne(vcd.MustRegexp("top$"))
	require.NoError(t, err)
	assert.True(t, m.IsScope())
	assert.Equal(t, "counter_tb.top", m.Scope.Path())

	assert.Equal(t, []string{"counter_tb.clock", "counter_tb.top.clock"},
		v.Find(vcd.MustGlob("**.clock")).Paths())
	assert.Equal(t, []string{"counter_tb.clock"},
		v.Find(vcd.MustGlob("*.clock")).Paths())
	assert.Equal(t, []string{"counter_tb.reset", "counter_tb.top.enable"},
		v.Find(vcd.Exact("counter_tb.top.enable", "counter_tb.reset")).Paths())
}

func TestVCD_Scope(t *testing.T) {
	v := openCounter(t)

	root := v.Root()
	require.NotNil(t, root)
	assert.Equal(t, "", root.Path())
	assert.Len(t, root.Scopes(), 1)

	top, err := v.Scope("counter_tb.top")
	require.NoError(t, err)
	assert.Equal(t, "top", top.Name)
	assert.Equal(t, "counter_tb", top.Parent().Name)
	assert.True(t, top.Contains("clock"))
	assert.False(t, top.Contains("counter_tb"))
	var names []string
	for _, vr := range top.Vars() {
		names = append(names, vr.Name)
	}
	assert.Equal(t, []string{"clock", "enable", "out[1:0]", "reset"}, names)

	vr, err := v.Var("counter_tb.top.out[1:0]")
	require.NoError(t, err)
	assert.Equal(t, "out", vr.Base)
	assert.True(t, vr.Ranged)
	assert.Equal(t, 1, vr.MSB)
	assert.Equal(t, 0, vr.LSB)
	assert.Same(t, top, vr.Scope())
	assert.Equal(t, "counter_tb.top.out[1:0]", vr.Path())

	sig, err := top.Signal("out[1:0]")
	require.NoError(t, err)
	assert.Same(t, vr.Signal, sig)

	_, err = v.Scope("counter_tb.clock")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))
	_, err = v.Scope("counter_tb.nope")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))

	s, err := v.Scope("")
	require.NoError(t, err)
	assert.Same(t, root, s)
}

func TestVCD_flat(t *testing.T) {
	v := openCounter(t, vcd.Flat())
	assert.Nil(t, v.Root())
	_, err := v.Scope("counter_tb")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))

	ms := v.Find(vcd.MustRegexp("out.*"))
	require.Len(t, ms, 2)
	assert.Same(t, ms[0].Signal, ms[1].Signal)
	assert.Nil(t, ms[0].Var)

	m, err := v.Lookup("counter_tb.clock")
	require.NoError(t, err)
	assert.NotNil(t, m.Signal)
	_, err = v.Var("counter_tb.clock")
	assert.True(t, errors.Is(err, vcd.ErrNotFound))
}

func TestParse_smallClock(t *testing.T) {
	v, err := vcd.ParseString(smallClock)
	require.NoError(t, err)
	assert.True(t, v.Timescale().IsZero())
	clk, err := v.Signal("clock")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0", "1"}, strs(clk.Slice(0, 3)))
	assert.Len(t, v.Root().Vars(), 1)
}

func TestParse_singleLine(t *testing.T) {
	v, err := vcd.ParseString(singleLine)
	require.NoError(t, err)
	assert.Equal(t, "0.000001", v.Timescale().Scale().String())

	d0, err := v.Signal("X.D0")
	require.NoError(t, err)
	d1, err := v.Signal("X.D1")
	require.NoError(t, err)
	assert.Equal(t, []vcd.Delta{
		{Time: 0, Value: bit(t, '0')},
		{Time: 10, Value: bit(t, '1')},
		{Time: 20, Value: bit(t, '0')},
	}, d0.Entries())
	assert.Equal(t, []vcd.Delta{
		{Time: 0, Value: bit(t, '1')},
		{Time: 10, Value: bit(t, '0')},
	}, d1.Entries())
}

func TestParse_extraMetadata(t *testing.T) {
	v, err := vcd.ParseString(extraMetadata)
	require.NoError(t, err)
	h := v.Header()
	assert.Equal(t, "2018-10-14", h.Date)
	assert.Equal(t, "VCD generator 1.0", h.Version)
	assert.Equal(t, []string{"Generated by a tool with some extra metadata"}, h.Comments)
	ts := v.Timescale()
	assert.Zero(t, ts.Scale().Cmp(apd.New(6666, -12)))
	assert.Zero(t, ts.Factor().Cmp(apd.New(1, -12)))

	data, err := v.Signal("logic.data")
	require.NoError(t, err)
	assert.Equal(t, "xxxxxxxx", data.ValueAt(0).String())
	n, err := data.ValueAt(1).Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xa5), n)

	volt, err := v.Signal("logic.voltage")
	require.NoError(t, err)
	assert.Equal(t, vcd.Real, volt.Kind())
	f, err := volt.ValueAt(5).Float()
	require.NoError(t, err)
	assert.Equal(t, 12.5, f)
	assert.Equal(t, "r", v.References()["logic.voltage"])
}

func bit(t *testing.T, b byte) vcd.Value {
	t.Helper()
	v, err := vcd.BitValue(b)
	require.NoError(t, err)
	return v
}

func TestOpen_compressed(t *testing.T) {
	raw, err := os.ReadFile(counterTB)
	require.NoError(t, err)
	dir := t.TempDir()

	gz := filepath.Join(dir, "counter_tb.vcd.gz")
	f, err := os.Create(gz)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	zst := filepath.Join(dir, "counter_tb.vcd.zst")
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(zst, enc.EncodeAll(raw, nil), 0o644))
	require.NoError(t, enc.Close())

	for _, name := range []string{gz, zst} {
		v, err := vcd.Open(name)
		require.NoError(t, err, name)
		out, err := v.Signal("counter_tb.top.out[1:0]")
		require.NoError(t, err, name)
		assert.Equal(t, "11", out.ValueAt(10).String(), name)
	}

	_, err = vcd.Open(filepath.Join(dir, "missing.vcd"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "unexpected error %v", err)
	_, ok := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok, "error has no stack trace")
}
