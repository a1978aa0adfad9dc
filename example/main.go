// Demo for fortio.org/timedinput: prompt with a budget, fall back to a
// default answer when nobody is at the keyboard.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/timedinput"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	timeout := flag.Duration("timeout", 5*time.Second, "How long to wait for the answer (0 to not wait at all)")
	defaultAnswer := flag.String("default", "n", "Answer assumed on timeout")
	cli.Main()
	r := timedinput.NewReader(os.Stdin, os.Stdout)
	defer r.Close()
	log.LogVf("Terminal input: %t", r.IsTerminal())
	line, err := r.ReadLineTimeout("Proceed? [y/n] ", *timeout)
	switch {
	case errors.Is(err, timedinput.ErrTimeout):
		log.Infof("No answer in %v, assuming %q", *timeout, *defaultAnswer)
		line = *defaultAnswer
	case errors.Is(err, timedinput.ErrUserInterrupt):
		log.Infof("Interrupted, bye")
		return 1
	case err != nil:
		return log.FErrf("Error reading answer: %v", err)
	}
	fmt.Printf("Got %q\n", line)
	return 0
}
