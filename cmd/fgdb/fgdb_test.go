package main

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmdtest"
)

var update = flag.Bool("update", false, "update test files with results")

func TestCLI(t *testing.T) {
	ts, err := cmdtest.Read("testdata")
	if err != nil {
		t.Fatal(err)
	}
	ts.KeepRootDirs = true
	ts.Setup = func(dir string) (err error) {
		// source folders the test registers as blocks
		err = os.MkdirAll("fblock", 0755)
		if err != nil {
			return
		}
		err = ioutil.WriteFile(filepath.Join("fblock", "func"), []byte("#!/bin/sh\nexit 0\n"), 0755)
		if err != nil {
			return
		}
		err = os.MkdirAll("dblock", 0755)
		if err != nil {
			return
		}
		return ioutil.WriteFile(filepath.Join("dblock", "data.csv"), []byte("data\n21\n"), 0644)
	}
	ts.Commands["fgdb"] = cmdtest.InProcessProgram("fgdb", run)
	ts.Run(t, *update)
}
