package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/t7a/fgdb"
)

func init() {
	log.SetLevel(log.WarnLevel)
	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	formatter := &logrus.TextFormatter{}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

type Opts struct {
	Init          bool
	Addfn         bool
	Adddata       bool
	Run           bool
	Stats         bool
	Watch         bool
	Folder        string
	Operationfile string `docopt:"<operationfile>"`
	Timeout       int    `docopt:"--timeout"`
}

func main() {
	os.Exit(run())
}

func run() (rc int) {

	usage := `fgdb

Usage:
  fgdb init
  fgdb addfn <folder>
  fgdb adddata <folder>
  fgdb run [--timeout=<seconds>] <operationfile>
  fgdb stats
  fgdb watch

Options:
  -h --help            Show this screen.
  --version            Show version.
  --timeout=<seconds>  Kill the function process after this long [default: 0].
`
	parser := &docopt.Parser{OptionsFirst: false}
	o, _ := parser.ParseArgs(usage, os.Args[1:], "0.1")
	var opts Opts
	err := o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}
	log.Debug(opts)

	switch true {
	case opts.Init:
		msg, err := initStore()
		if err != nil {
			log.Error(err)
			return rcFor(err)
		}
		fmt.Println(msg)
	case opts.Addfn:
		err := addBlock(fgdb.CategoryFunction, opts.Folder)
		if err != nil {
			log.Error(err)
			return rcFor(err)
		}
	case opts.Adddata:
		err := addBlock(fgdb.CategoryData, opts.Folder)
		if err != nil {
			log.Error(err)
			return rcFor(err)
		}
	case opts.Run:
		code, err := runOperation(opts.Operationfile, opts.Timeout)
		if err != nil {
			log.Error(err)
			return rcFor(err)
		}
		fmt.Println(code)
	case opts.Stats:
		err := stats()
		if err != nil {
			log.Error(err)
			return rcFor(err)
		}
	case opts.Watch:
		err := watch()
		if err != nil {
			log.Error(err)
			return rcFor(err)
		}
	}
	return 0
}

// rcFor maps the error taxonomy onto process exit codes.
func rcFor(err error) int {
	var malformed *fgdb.MalformedExpressionError
	var resolution *fgdb.ResolutionError
	var execution *fgdb.ExecutionError
	var persistence *fgdb.PersistenceError
	switch {
	case errors.As(err, &malformed):
		return 2
	case errors.As(err, &resolution):
		return 3
	case errors.As(err, &execution):
		return 4
	case errors.As(err, &persistence):
		return 5
	}
	return 1
}

func storeDir() (dir string) {
	dir = os.Getenv("FGDBDIR")
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			panic("can't get current directory")
		}
	}
	return
}

func initStore() (msg string, err error) {
	st, err := fgdb.Create(storeDir())
	if err != nil {
		return
	}
	err = st.CreateRootNodes()
	if err != nil {
		return
	}
	err = st.Save(st.SnapshotPath())
	if err != nil {
		return
	}
	return fmt.Sprintf("Initialized empty store in %s", st.Dir), nil
}

func openStore() (st *fgdb.Store, err error) {
	st, err = fgdb.Open(storeDir())
	if err != nil {
		return
	}
	err = st.Load(st.SnapshotPath())
	if err != nil {
		return nil, err
	}
	return
}

func addBlock(category fgdb.Category, folder string) (err error) {
	st, err := openStore()
	if err != nil {
		return
	}
	var code string
	switch category {
	case fgdb.CategoryFunction:
		code, err = st.AddFunctionBlock(folder)
	case fgdb.CategoryData:
		code, err = st.AddDataBlock(folder)
	}
	if err != nil {
		return
	}
	err = st.Save(st.SnapshotPath())
	if err != nil {
		return
	}
	log.Infof("block code %s", code)
	fmt.Printf("registered %s block %s\n", category, st.Blocks[code].Name)
	return
}

func runOperation(operationfile string, timeout int) (code string, err error) {
	st, err := openStore()
	if err != nil {
		return
	}
	req, err := fgdb.ParseOperationFile(operationfile)
	if err != nil {
		return
	}
	op := st.NewOperation(req)
	op.Timeout = time.Duration(timeout) * time.Second
	code, err = op.Run(context.Background())
	if err != nil {
		return
	}
	err = st.Save(st.SnapshotPath())
	if err != nil {
		return
	}
	return
}

func stats() (err error) {
	st, err := openStore()
	if err != nil {
		return
	}
	s := st.Statistics()
	fmt.Printf("blocks: %d total, %d function, %d data\n",
		s.TotalBlocks, s.FunctionBlocks, s.DataBlocks)
	fmt.Printf("ancestry: %d nodes, %d edges\n", s.Ancestry.Nodes, s.Ancestry.Edges)
	fmt.Printf("dataflow: %d nodes, %d edges\n", s.Dataflow.Nodes, s.Dataflow.Edges)
	return
}

func watch() (err error) {
	st, err := fgdb.Open(storeDir())
	if err != nil {
		return
	}
	w, err := st.Watch()
	if err != nil {
		return
	}
	defer w.Close()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			fmt.Println(ev)
		case werr, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Error(werr)
		}
	}
}
