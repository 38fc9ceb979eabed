/*
Package vcd reads Value Change Dump files as produced by Verilog and VHDL
simulators (IEEE 1364 section 18).

A dump is either materialized in memory with Parse or Open, or streamed
through a Visitor with Walk.

Parse builds a VCD: the header (date, version, timescale), the scope tree,
and one Signal per identifier code holding its value changes. Variables
declared with the same identifier code in different scopes share the same
*Signal:

	v, err := vcd.Open("counter_tb.vcd")
	if err != nil {
		// handle error
	}
	out, err := v.Signal("counter_tb.out[1:0]")
	if err != nil {
		// handle error
	}
	fmt.Println(out.ValueAt(10))

Values are kept in their textual VCD form (see Value): four state bits
('0', '1', 'x', 'z') for scalars and vectors, the raw number for reals.
Time is kept in timescale units; use Timescale to convert to seconds.

Signals and scopes can be searched by full dotted path with a Pattern: a
regular expression (Regexp), a glob (Glob) or a set of paths (Exact).

Walk delivers parsing events without retaining any value, and lets large
dumps be processed in constant memory:

	err := vcd.Walk(r, &vcd.Funcs{
		OnChange: func(t uint64, code string, v vcd.Value) error {
			// ...
			return nil
		}})

Malformed structure (broken declarations, unparseable timestamps) is always
an error. Content anomalies such as changes for undeclared identifier codes
or unparseable values are logged at Debug level and skipped, unless the
Strict option is given. See WithLogger.

*/
package vcd
