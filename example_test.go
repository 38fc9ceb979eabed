package vcd_test

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/db47h/vcd"
)

func ExampleOpen() {
	v, err := vcd.Open("testdata/counter_tb.vcd")
	if err != nil {
		log.Fatal(err)
	}
	out, err := v.Signal("counter_tb.out[1:0]")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v.Timescale(), v.BeginTime(), v.EndTime())
	fmt.Println(out.ValueAt(1), out.ValueAt(10))
	var vals []string
	for val := range out.Slice(4, 12) {
		vals = append(vals, val.String())
	}
	fmt.Println(strings.Join(vals, " "))

	// Output:
	// 1s 0 33
	// x 11
	// 0 0 1 1 10 10 11 11
}

func ExampleVCD_Find() {
	v, err := vcd.Open("testdata/counter_tb.vcd")
	if err != nil {
		log.Fatal(err)
	}
	// variables declared with the same identifier code share their signal
	for _, m := range v.Find(vcd.MustGlob("**.out*")) {
		fmt.Println(m.Path, m.Signal.Code, m.Var.Type)
	}

	// Output:
	// counter_tb.out[1:0] ! wire
	// counter_tb.top.out[1:0] ! reg
}

func ExampleWalk() {
	f, err := os.Open("testdata/counter_tb.vcd")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	changes := make(map[string]int)
	err = vcd.Walk(f, &vcd.Funcs{
		OnChange: func(t uint64, code string, v vcd.Value) error {
			changes[code]++
			return nil
		}},
		vcd.WithFilter(vcd.MustRegexp(`\.(clock|out\[1:0\])$`)))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(changes)

	// Output:
	// map[!:16 ":34]
}

func ExampleBind() {
	var tb struct {
		Clock *vcd.Signal `vcd:"counter_tb.clock"`
		Out   *vcd.Var    `vcd:"counter_tb.top.out*,glob"`
	}
	v, err := vcd.Open("testdata/counter_tb.vcd")
	if err != nil {
		log.Fatal(err)
	}
	if err = vcd.Bind(v, &tb); err != nil {
		log.Fatal(err)
	}
	fmt.Println(tb.Out.Path(), tb.Out.Width, tb.Clock.ValueAt(3))

	// Output:
	// counter_tb.top.out[1:0] 2 0
}
