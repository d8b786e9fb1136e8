package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("steploom")
	if err != nil {
		fmt.Fprintln(os.Stderr, "stl: steploom not found on PATH")
		os.Exit(1)
	}
	if err := syscall.Exec(bin, append([]string{"steploom"}, os.Args[1:]...), os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "stl: %v\n", err)
		os.Exit(1)
	}
}
