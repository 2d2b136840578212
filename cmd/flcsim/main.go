// The flcsim binary runs flash controller operations against the simulated
// MAX78000. Operations run in order on one simulated chip, so a script can
// erase, write and read back in a single invocation:
//
//	flcsim erase 0x10060000 write32 0x10060000 0xDEADBEEF read32 0x10060000
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"max78000-hal/mmio"
)

var (
	maxPolls    = flag.Uint64("max_polls", 100_000, "Ready-bit polls before an operation times out; zero to spin forever")
	failCommits = flag.Int("fail_commits", 0, "Number of flash commits the simulator faults before behaving")
	verify      = flag.Bool("verify", true, "Read back programmed images")
	sysclkDiv   = flag.Uint("sysclk_div", 0, "SYSCLK divisor (1, 2, 4 ... 128) overriding the board plan; zero keeps the plan's")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	var poller mmio.Poller = mmio.Spin{}
	if *maxPolls > 0 {
		poller = mmio.Polls(*maxPolls)
	}
	plan, err := planFor(uint32(*sysclkDiv))
	if err != nil {
		glog.Exitf("%v", err)
	}
	s, err := newSession(plan, poller)
	if err != nil {
		glog.Exitf("bring-up failed: %v", err)
	}
	defer s.close()
	s.sim.FailNextCommits(*failCommits)
	s.verify = *verify

	if err := s.run(flag.Args(), os.Stdout); err != nil {
		glog.Exitf("%v", err)
	}
}
